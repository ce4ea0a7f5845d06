package db

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pageSeed struct {
	Slug          string
	Title         string
	Status        string
	IsDefaultHome bool
	Sections      []Section
}

var pageSeeds = []pageSeed{
	{
		Slug:          "home",
		Title:         "Homepage",
		Status:        PageStatusPublished,
		IsDefaultHome: true,
		Sections: []Section{
			{
				Type:  "hero",
				Order: 0,
				Props: PropBag{
					"eyebrow":  "Head & Growshop",
					"title":    "Premium grow gear shipped EU-wide",
					"subtitle": "Lighting, nutrients, automation, and expert support in one store.",
					"ctaLabel": "Shop products",
					"ctaHref":  "/product",
				},
			},
			{
				Type:  "product-grid",
				Order: 1,
				Props: PropBag{
					"title": "Featured essentials",
					"limit": 4,
				},
			},
		},
	},
	{
		Slug:          "legal",
		Title:         "Legal & Compliance",
		Status:        PageStatusDraft,
		IsDefaultHome: false,
		Sections: []Section{
			{
				Type:  "text-block",
				Order: 0,
				Props: PropBag{
					"title": "Terms & Conditions",
					"body":  "Replace with your actual AGB text before publishing.",
				},
			},
		},
	},
}

var productSeeds = []Product{
	{
		Slug:        "led-panel-240w",
		Title:       "Helios LED Panel 240W",
		Description: "Full-spectrum quantum board for a 80x80 tent.",
		Price:       249.90,
		Featured:    true,
	},
	{
		Slug:        "nutrient-starter-set",
		Title:       "Nutrient Starter Set",
		Description: "Three-part base nutrients for soil and coco.",
		Price:       39.90,
		Featured:    true,
	},
	{
		Slug:        "carbon-filter-125",
		Title:       "Carbon Filter 125mm",
		Description: "Activated-carbon filter with pre-filter sleeve.",
		Price:       64.50,
	},
	{
		Slug:        "timer-socket-duo",
		Title:       "Timer Socket Duo",
		Description: "Twin mechanical timers rated for HID ballasts.",
		Price:       17.90,
	},
}

// SeedDemoData 写入演示页面与商品，可重复执行。
// 页面的区块会被整体替换，默认主页标记保持全局唯一。
func SeedDemoData() error {
	if DB == nil {
		return errors.New("database not initialized")
	}

	for _, seed := range pageSeeds {
		if err := seedPage(seed); err != nil {
			return err
		}
	}

	for _, product := range productSeeds {
		var existing Product
		err := DB.Where("slug = ?", product.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := DB.Create(&product).Error; err != nil {
			return err
		}
	}

	return nil
}

func seedPage(seed pageSeed) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var page Page
		err := tx.Where("slug = ?", seed.Slug).First(&page).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			page = Page{Slug: seed.Slug}
		} else if err != nil {
			return err
		}

		page.Title = seed.Title
		page.Status = seed.Status
		page.IsDefaultHome = seed.IsDefaultHome
		if seed.Status == PageStatusPublished {
			now := time.Now()
			page.PublishedAt = &now
		} else {
			page.PublishedAt = nil
		}

		if err := tx.Save(&page).Error; err != nil {
			return err
		}

		if err := tx.Where("page_id = ?", page.ID).Delete(&Section{}).Error; err != nil {
			return err
		}

		sections := make([]Section, len(seed.Sections))
		for i, section := range seed.Sections {
			section.UID = uuid.NewString()
			section.PageID = page.ID
			sections[i] = section
		}
		if err := tx.Create(&sections).Error; err != nil {
			return err
		}

		if seed.IsDefaultHome {
			if err := tx.Model(&Page{}).
				Where("id <> ?", page.ID).
				Update("is_default_home", false).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
