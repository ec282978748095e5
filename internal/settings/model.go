package settings

// Setting is a single named configuration value. Every domain value is stored
// as a string at this layer; callers coerce to their own types.
type Setting struct {
	Key   string `gorm:"column:key;primaryKey" json:"key"`
	Value string `gorm:"column:value;not null" json:"value"`
}

// TableName provides the explicit table binding for GORM.
func (Setting) TableName() string {
	return "settings"
}
