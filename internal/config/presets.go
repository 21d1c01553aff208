package config

// Preset определяет профиль качества.
type Preset string

const (
	// PresetPrint - файлы для печати: качество 95, lanczos.
	PresetPrint Preset = "print"
	// PresetWeb - облегчённые файлы: качество 82, catmullrom.
	PresetWeb Preset = "web"
	// PresetDraft - черновая проверка раскладки: качество 60, linear.
	PresetDraft Preset = "draft"
)

// PresetConfig содержит настройки для пресета.
type PresetConfig struct {
	// Quality - качество JPEG (1-100).
	Quality int
	// Filter - фильтр ресемплинга.
	Filter string
}

// Presets содержит все доступные пресеты.
var Presets = map[Preset]PresetConfig{
	PresetPrint: {Quality: 95, Filter: "lanczos"},
	PresetWeb:   {Quality: 82, Filter: "catmullrom"},
	PresetDraft: {Quality: 60, Filter: "linear"},
}

// ApplyPreset применяет пресет к конфигурации.
// Возвращает true, если пресет был применён.
func (c *Config) ApplyPreset(preset string) bool {
	p, ok := Presets[Preset(preset)]
	if !ok {
		return false
	}

	c.Preset = preset
	c.Quality = p.Quality
	c.Filter = p.Filter

	return true
}

// ValidPresets возвращает список доступных пресетов.
func ValidPresets() []string {
	return []string{
		string(PresetPrint),
		string(PresetWeb),
		string(PresetDraft),
	}
}
