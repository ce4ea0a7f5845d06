package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hugshop/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouterTest(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Page{}, &db.Section{}, &db.Product{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb

	return SetupRouter("test-secret"), func() {
		sqlDB.Close()
	}
}

func createRouterTestUser(t *testing.T, username, role string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := db.User{Username: username, Password: string(hashed), Role: role}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
}

func loginAs(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie from login")
	}
	parts := make([]string, len(cookies))
	for i, cookie := range cookies {
		parts[i] = cookie.Name + "=" + cookie.Value
	}
	return strings.Join(parts, "; ")
}

func seedRouterPage(t *testing.T, slug, status string, sections ...db.Section) {
	t.Helper()
	page := db.Page{Slug: slug, Title: slug, Status: status}
	if err := db.DB.Create(&page).Error; err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	for i := range sections {
		sections[i].PageID = page.ID
		sections[i].UID = slug + "-seed-" + sections[i].Type
	}
	if len(sections) > 0 {
		if err := db.DB.Create(&sections).Error; err != nil {
			t.Fatalf("failed to seed sections: %v", err)
		}
	}
}

func putSections(r *gin.Engine, cookie, slug string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"sections": payload})
	req := httptest.NewRequest(http.MethodPut, "/api/pages/"+slug, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getPage(t *testing.T, r *gin.Engine, slug string) db.Page {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/pages/"+slug, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/pages/%s failed with %d", slug, w.Code)
	}
	var page db.Page
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	return page
}

func TestHealthz(t *testing.T) {
	r, cleanup := setupRouterTest(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestUpdatePageRequiresAdminSession(t *testing.T) {
	r, cleanup := setupRouterTest(t)
	defer cleanup()

	seedRouterPage(t, "home", db.PageStatusPublished, db.Section{Type: "hero", Order: 0})
	createRouterTestUser(t, "customer", db.RoleCustomer)

	// 无会话
	w := putSections(r, "", "home", []gin.H{{"type": "hero"}})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without session, got %d", w.Code)
	}

	// 非管理员会话
	cookie := loginAs(t, r, "customer")
	w = putSections(r, cookie, "home", []gin.H{{"type": "hero"}})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for non-admin, got %d", w.Code)
	}

	page := getPage(t, r, "home")
	if len(page.Sections) != 1 || page.Sections[0].Type != "hero" {
		t.Fatal("expected rejected updates to leave sections unchanged")
	}
}

func TestPageCompositionOverHTTP(t *testing.T) {
	r, cleanup := setupRouterTest(t)
	defer cleanup()

	seedRouterPage(t, "home", db.PageStatusDraft, db.Section{Type: "hero", Order: 0})
	seedRouterPage(t, "about", db.PageStatusPublished, db.Section{Type: "text-block", Order: 0})
	createRouterTestUser(t, "admin", db.RoleAdmin)
	cookie := loginAs(t, r, "admin")

	w := putSections(r, cookie, "home", []gin.H{
		{"type": "hero", "props": gin.H{"title": "Fresh"}},
		{"type": "banner", "props": gin.H{"text": "Sale"}, "order": 5},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	page := getPage(t, r, "home")
	if page.Status != db.PageStatusPublished {
		t.Fatalf("expected publish-on-save, got %s", page.Status)
	}
	if len(page.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(page.Sections))
	}
	if page.Sections[0].Order != 0 || page.Sections[1].Order != 5 {
		t.Fatalf("expected explicit order to be honored, got [%d %d]", page.Sections[0].Order, page.Sections[1].Order)
	}

	// 列表按 slug 升序
	req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
	lw := httptest.NewRecorder()
	r.ServeHTTP(lw, req)
	if lw.Code != http.StatusOK {
		t.Fatalf("expected status 200 from list, got %d", lw.Code)
	}
	var pages []db.Page
	if err := json.Unmarshal(lw.Body.Bytes(), &pages); err != nil {
		t.Fatalf("failed to decode page list: %v", err)
	}
	if len(pages) != 2 || pages[0].Slug != "about" || pages[1].Slug != "home" {
		t.Fatalf("expected pages ordered by slug, got %+v", pages)
	}

	// 更新失败场景：空列表
	w = putSections(r, cookie, "home", []gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty list, got %d", w.Code)
	}

	// 未知 slug
	w = putSections(r, cookie, "missing", []gin.H{{"type": "hero"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown slug, got %d", w.Code)
	}
}

func TestConcurrentUpdatesLastWriteWinsOverHTTP(t *testing.T) {
	r, cleanup := setupRouterTest(t)
	defer cleanup()

	seedRouterPage(t, "home", db.PageStatusPublished,
		db.Section{Type: "hero", Order: 0, Props: db.PropBag{"title": "Base"}},
	)
	createRouterTestUser(t, "admin", db.RoleAdmin)
	cookie := loginAs(t, r, "admin")

	base := gin.H{"type": "hero", "props": gin.H{"title": "Base"}, "order": 0}
	updateOne := []gin.H{base, {"type": "banner", "props": gin.H{"text": "First"}}}
	updateTwo := []gin.H{base, {"type": "testimonial", "props": gin.H{"author": "Second"}}}

	var wg sync.WaitGroup
	results := make([]*httptest.ResponseRecorder, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0] = putSections(r, cookie, "home", updateOne)
	}()
	go func() {
		defer wg.Done()
		results[1] = putSections(r, cookie, "home", updateTwo)
	}()
	wg.Wait()

	if results[0].Code != http.StatusOK || results[1].Code != http.StatusOK {
		t.Fatalf("expected both writers to succeed, got %d and %d", results[0].Code, results[1].Code)
	}

	final := getPage(t, r, "home")
	if len(final.Sections) != 2 {
		t.Fatalf("expected one submitted list in full, got %d sections", len(final.Sections))
	}
	if final.Sections[0].Type != "hero" {
		t.Fatalf("expected shared base section first, got %s", final.Sections[0].Type)
	}

	switch final.Sections[1].Type {
	case "banner":
		if final.Sections[1].Props["text"] != "First" {
			t.Fatalf("banner props incomplete: %v", final.Sections[1].Props)
		}
	case "testimonial":
		if final.Sections[1].Props["author"] != "Second" {
			t.Fatalf("testimonial props incomplete: %v", final.Sections[1].Props)
		}
	default:
		t.Fatalf("final state is a mix of both writes: %s", final.Sections[1].Type)
	}
}

func TestStorefrontRendersDefaultHome(t *testing.T) {
	r, cleanup := setupRouterTest(t)
	defer cleanup()

	page := db.Page{Slug: "home", Title: "Homepage", Status: db.PageStatusPublished, IsDefaultHome: true}
	if err := db.DB.Create(&page).Error; err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	section := db.Section{UID: "home-hero", PageID: page.ID, Type: "hero", Order: 0, Props: db.PropBag{"title": "Grow gear"}}
	if err := db.DB.Create(&section).Error; err != nil {
		t.Fatalf("failed to seed section: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Grow gear") {
		t.Fatalf("expected rendered hero on home, got %q", w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected html response, got %s", w.Header().Get("Content-Type"))
	}
}
