package domain

// TagPalette is the fixed set of pastel colors a tag may use
var TagPalette = []string{
	"#d1e7dd", // verde
	"#f8d7da", // rojo
	"#fff3cd", // amarillo
	"#cff4fc", // azul
	"#e2e3e5", // gris
	"#f3e5f5", // morado
}

// DefaultTagColor is assigned when no color is submitted
const DefaultTagColor = "#cff4fc"

// IsPaletteColor reports whether the color belongs to the fixed palette
func IsPaletteColor(color string) bool {
	for _, c := range TagPalette {
		if c == color {
			return true
		}
	}
	return false
}

// Tag is a global label attachable to tasks (many-to-many, independent
// lifecycle from any board)
type Tag struct {
	BaseModel
	Name  string `gorm:"type:varchar(50);not null" json:"name"`
	Color string `gorm:"type:varchar(7);not null;default:'#cff4fc'" json:"color"`
	Tasks []Task `gorm:"many2many:task_tags" json:"-"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}
