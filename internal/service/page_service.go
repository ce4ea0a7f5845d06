package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugshop/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound       = errors.New("page not found")
	ErrNoSections         = errors.New("at least one section is required")
	ErrInvalidSectionType = errors.New("each section requires a valid type")
)

// SectionInput is one submitted section of a composition update. Props may
// be any decoded JSON value; anything that is not an object is coerced to
// an empty bag. A nil Order means "use the array position".
type SectionInput struct {
	Type  string `json:"type"`
	Props any    `json:"props"`
	Order *int   `json:"order"`
}

// PageService owns page reads and the composition update: validation,
// order normalization, and the transactional full replacement of a page's
// section list.
type PageService struct {
	db *gorm.DB
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// List returns every page ordered by slug, each with its sections ordered
// by position. Pass descending to reverse the page ordering.
func (s *PageService) List(descending bool) ([]db.Page, error) {
	slugOrder := "slug ASC"
	if descending {
		slugOrder = "slug DESC"
	}

	var pages []db.Page
	if err := s.db.Order(slugOrder).
		Preload("Sections", sectionsAscending).
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// GetBySlug fetches a page and its ordered sections for a given slug.
func (s *PageService) GetBySlug(slug string) (*db.Page, error) {
	var page db.Page
	err := s.db.Where("slug = ?", slug).
		Preload("Sections", sectionsAscending).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// DefaultHome returns the page currently flagged as the default home.
func (s *PageService) DefaultHome() (*db.Page, error) {
	var page db.Page
	err := s.db.Where("is_default_home = ?", true).
		Preload("Sections", sectionsAscending).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// UpdateSections atomically replaces the whole section list of the page
// addressed by slug and publishes it. There is no version token and no
// conflict detection: of two concurrent updates to the same page, the one
// whose transaction commits last wins in full.
func (s *PageService) UpdateSections(slug string, inputs []SectionInput) (*db.Page, error) {
	if len(inputs) == 0 {
		return nil, ErrNoSections
	}
	for _, input := range inputs {
		if strings.TrimSpace(input.Type) == "" {
			return nil, ErrInvalidSectionType
		}
	}

	var page db.Page
	if err := s.db.Select("id").Where("slug = ?", slug).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	sections := normalizeSections(page.ID, inputs)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", page.ID).Delete(&db.Section{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&sections).Error; err != nil {
			return err
		}
		return tx.Model(&db.Page{}).Where("id = ?", page.ID).Updates(map[string]any{
			"status":       db.PageStatusPublished,
			"published_at": time.Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetBySlug(slug)
}

// SetDefaultHome flags the page addressed by slug as the default home and
// clears the previous holder in the same transaction, so at most one page
// carries the flag at any time.
func (s *PageService) SetDefaultHome(slug string) (*db.Page, error) {
	var page db.Page
	if err := s.db.Select("id").Where("slug = ?", slug).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Page{}).
			Where("id <> ?", page.ID).
			Update("is_default_home", false).Error; err != nil {
			return err
		}
		return tx.Model(&db.Page{}).
			Where("id = ?", page.ID).
			Update("is_default_home", true).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetBySlug(slug)
}

// normalizeSections maps submitted sections to storable rows: a fresh UID
// per row, explicit order kept as-is, missing order defaulting to the array
// position, non-object props coerced to an empty bag. Duplicate order
// values are allowed; reads break ties by insertion order.
func normalizeSections(pageID uint, inputs []SectionInput) []db.Section {
	sections := make([]db.Section, 0, len(inputs))
	for i, input := range inputs {
		props := db.PropBag{}
		if bag, ok := input.Props.(map[string]any); ok {
			props = db.PropBag(bag)
		}

		order := i
		if input.Order != nil {
			order = *input.Order
		}

		sections = append(sections, db.Section{
			UID:    uuid.NewString(),
			PageID: pageID,
			Type:   input.Type,
			Order:  order,
			Props:  props,
		})
	}
	return sections
}

func sectionsAscending(gdb *gorm.DB) *gorm.DB {
	return gdb.Order(db.SectionOrder)
}
