package model

type ResourceType string

const (
	WorksheetResource   ResourceType = "worksheet"
	VideoResource       ResourceType = "video"
	AudioResource       ResourceType = "audio"
	InteractiveResource ResourceType = "interactive"
)

func ValidResourceType(t ResourceType) bool {
	switch t {
	case WorksheetResource, VideoResource, AudioResource, InteractiveResource:
		return true
	}
	return false
}

// Resource 心理教育资源（工作表、视频、音频、互动练习）
// swagger:model Resource
type Resource struct {
	BaseModel
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Type        ResourceType `gorm:"size:20;not null" json:"type"`
	FileURL     string       `gorm:"size:255" json:"fileUrl"`
	Duration    float64      `gorm:"default:0" json:"duration"` // 音视频时长（秒）
	UploadedBy  string       `gorm:"type:varchar(36);index" json:"uploadedBy"`
	IsActive    bool         `gorm:"default:true;index" json:"isActive"`
}

func (Resource) TableName() string {
	return "resources"
}
