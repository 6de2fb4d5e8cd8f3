package model

// TargetAudience 公告目标受众
type TargetAudience string

const (
	AudienceAllEmployees TargetAudience = "ALL_EMPLOYEES"
	AudienceManagersOnly TargetAudience = "MANAGERS_ONLY"
)

// Valid 校验受众取值
func (a TargetAudience) Valid() bool {
	return a == AudienceAllEmployees || a == AudienceManagersOnly
}

// MarketplacePost 业务单元公告 — 对应 marketplace_posts
type MarketplacePost struct {
	PostID         string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"    json:"post_id"`
	BusinessUnitID string         `gorm:"type:uuid;not null"                                json:"business_unit_id"`
	AuthorUserID   string         `gorm:"type:uuid;not null"                                json:"author_user_id"`
	AuthorName     string         `gorm:"type:varchar(100);not null;default:''"             json:"author_name"`
	Title          string         `gorm:"type:varchar(200);not null"                        json:"title"`
	Content        string         `gorm:"type:text;not null"                                json:"content"`
	TargetAudience TargetAudience `gorm:"type:varchar(32);not null;default:'ALL_EMPLOYEES'" json:"target_audience"`
	Timestamps
}

// TableName 指定表名
func (MarketplacePost) TableName() string { return "marketplace_posts" }
