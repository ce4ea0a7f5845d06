package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// 页面状态常量。保存区块即发布，没有独立的下线流程。
const (
	PageStatusDraft     = "DRAFT"
	PageStatusPublished = "PUBLISHED"
)

// Page represents a slug-addressed storefront document composed of an
// ordered list of sections.
type Page struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Slug          string     `gorm:"uniqueIndex;not null" json:"slug"`
	Title         string     `gorm:"not null" json:"title"`
	Status        string     `gorm:"size:20;not null;default:DRAFT" json:"status"`
	IsDefaultHome bool       `gorm:"not null;default:false" json:"isDefaultHome"`
	PublishedAt   *time.Time `json:"publishedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Sections      []Section  `gorm:"constraint:OnDelete:CASCADE" json:"sections"`
}

// Section is one typed content block belonging to exactly one page. The
// whole list is replaced on every composition update, so rows never outlive
// a save and their UIDs are never reused.
type Section struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UID       string    `gorm:"size:36;uniqueIndex;not null" json:"id"`
	PageID    uint      `gorm:"index;not null" json:"pageId"`
	Type      string    `gorm:"size:100;not null" json:"type"`
	Order     int       `gorm:"column:position;not null;default:0" json:"order"`
	Props     PropBag   `gorm:"type:text" json:"props"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SectionOrder is the clause used everywhere sections are read: ascending
// by position, insertion order breaking ties.
const SectionOrder = "position ASC, id ASC"

// PropBag holds a section's untyped props as JSON text in sqlite. Only the
// section variant named by Type knows the shape of its contents.
type PropBag map[string]any

// Value serializes the bag for storage. A nil bag persists as an empty
// object so clients always read back an object.
func (p PropBag) Value() (driver.Value, error) {
	if p == nil {
		p = PropBag{}
	}
	return json.Marshal(p)
}

// Scan restores the bag from its stored JSON text.
func (p *PropBag) Scan(value any) error {
	if value == nil {
		*p = PropBag{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported props column type")
	}

	if len(raw) == 0 {
		*p = PropBag{}
		return nil
	}

	return json.Unmarshal(raw, p)
}
