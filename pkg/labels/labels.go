package labels

// Label tables mapping classifier output to Ukrainian display names. The
// tables are read-only after process start; Normalize never mutates them.

// plantNames maps a plant label to its canonical display name.
var plantNames = map[string]string{
	"apple":         "Яблуня",
	"cherry_sour":   "Вишня (кисла)",
	"corn":          "Кукурудза",
	"cucumber":      "Огірок",
	"grape":         "Виноград",
	"sunflower":     "Соняшник",
	"wheat":         "Пшениця",
	"pepper_bell":   "Болгарський перець",
	"potato":        "Картопля",
	"raspberry":     "Малина",
	"soybean":       "Соя",
	"squash":        "Гарбуз",
	"strawberry":    "Полуниця",
	"tomato":        "Помідор",
	"unknown_plant": "",
}

// diseaseNames maps a disease label to its canonical display name.
var diseaseNames = map[string]string{
	"black_rot":              "Чорна гниль",
	"cedar_rust":             "Іржа яблуні",
	"scab":                   "Парша",
	"powdery_mildew":         "Борошниста роса",
	"common_rust":            "Іржа кукурудзи",
	"leaf_blight":            "Листова плямистість",
	"bacterial_wilt":         "Бактеріальне в’янення",
	"belly_rot":              "Гниль плодів",
	"downy_mildew":           "Пероноспороз",
	"gummy_stem_blight":      "В’янення стебла",
	"pythium_rot":            "Пітіумна гниль",
	"esca":                   "Еска винограду",
	"rhizopus_rot":           "Ризопусна гниль",
	"smuts":                  "Сажка",
	"rust":                   "Іржа",
	"septoria":               "Септоріоз",
	"powdery_mildew_wheat":   "Борошниста роса",
	"bacterial_spot":         "Бактеріальна плямистість",
	"early_blight":           "Рання плямистість",
	"late_blight":            "Фітофтороз",
	"leaf_mold":              "Бура плямистість",
	"mosaic":                 "Вірус мозаїки",
	"spider_mites":           "Павутинний кліщ",
	"target_spot":            "Кільцева плямистість",
	"verticillium":           "Вертицильоз",
	"yellow_leaf_curl_virus": "Вірус жовтого скручування листя",
	"leaf_scorch":            "Плямистість листя",
	"healthy":                "Здорова рослина",
	"unknown_disease":        "Невідома хвороба",
}

// pairKey keys the per-plant disease overrides.
type pairKey struct {
	plantName    string
	diseaseLabel string
}

// pairOverrides resolves disease labels whose display name depends on the
// host plant. Keyed by the canonical plant name, not the raw plant label.
var pairOverrides = map[pairKey]string{
	{"Помідор", "late_blight"}:  "Фітофтороз томату",
	{"Картопля", "late_blight"}: "Фітофтороз картоплі",
}

// canonicalDiseaseNames is the value set of diseaseNames, used to detect
// inputs that are already display names and must not be re-mapped.
var canonicalDiseaseNames = func() map[string]struct{} {
	set := make(map[string]struct{}, len(diseaseNames))
	for _, name := range diseaseNames {
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}()
