package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/hugshop/internal/db"
	"github.com/hugshop/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("hugshop_session", store))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := handler.NewAPI(db.DB)

	// 店面页面渲染
	r.GET("/", api.ShowHome)
	r.GET("/p/:slug", api.ShowPage)

	apiGroup := r.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/login", api.Login)
			auth.POST("/logout", api.Logout)
		}

		apiGroup.GET("/pages", api.ListPages)
		apiGroup.GET("/pages/:slug", api.GetPage)
		apiGroup.GET("/products", api.GetProducts)

		// 仅管理员可进行页面组合更新
		admin := apiGroup.Group("/pages")
		admin.Use(handler.AuthRequired(), handler.AdminRequired())
		{
			admin.PUT("/:slug", api.UpdatePage)
			admin.PUT("/:slug/default-home", api.SetDefaultHome)
		}
	}

	return r
}
