package models

// Shop is the tenant root. Every other entity hangs off a shop and must
// never be visible to a request resolved to a different shop.
type Shop struct {
	BaseModel
	Domain         string `gorm:"uniqueIndex" json:"domain"`
	NameLo         string `json:"name_lo"`
	NameEn         string `json:"name_en"`
	DescLo         string `json:"desc_lo"`
	DescEn         string `json:"desc_en"`
	AvatarKey      string `json:"avatar_key"`
	CoverKey       string `json:"cover_key"`
	ThemePrimary   string `json:"theme_primary"`
	ThemeSecondary string `json:"theme_secondary"`
	WaTemplate     string `json:"wa_template"`
}
