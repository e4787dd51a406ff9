package normalize

import "regexp"

// Keyword tables are ordered: the first rule whose keywords hit (and whose
// exclusions do not) wins. Loaded once at init, never mutated.

type brandRule struct {
	Brand    string
	Keywords []string
	Excludes []string
}

var brandRules = []brandRule{
	// Samsung before Apple: "galaxy" listings sometimes carry an "apple
	// compatible" tag and must not land in the Apple bucket.
	{Brand: "samsung", Keywords: []string{"samsung", "galaxy", "sgs", "sm-"}},
	{Brand: "apple", Keywords: []string{"iphone", "ipad", "macbook", "apple", "airpods"}, Excludes: []string{"galaxy", "samsung"}},
	{Brand: "xiaomi", Keywords: []string{"xiaomi", "redmi", "poco", "mi note", "mi 1"}},
	{Brand: "huawei", Keywords: []string{"huawei", "honor", "mate ", "p smart"}},
	{Brand: "google", Keywords: []string{"pixel", "google"}},
	{Brand: "oneplus", Keywords: []string{"oneplus", "one plus", "1+"}},
	{Brand: "oppo", Keywords: []string{"oppo", "realme", "reno"}},
	{Brand: "sony", Keywords: []string{"sony", "xperia"}},
	{Brand: "motorola", Keywords: []string{"motorola", "moto g", "moto e", "moto z"}},
	{Brand: "nokia", Keywords: []string{"nokia"}},
	{Brand: "lg", Keywords: []string{"lg "}},
}

type deviceRule struct {
	DeviceType string
	Keywords   []string
	Excludes   []string
}

var deviceRules = []deviceRule{
	{DeviceType: "tablet", Keywords: []string{"ipad", "tablet", "galaxy tab", "mediapad"}},
	{DeviceType: "laptop", Keywords: []string{"macbook", "laptop", "notebook", "chromebook"}},
	{DeviceType: "watch", Keywords: []string{"watch", "band "}, Excludes: []string{"watchdog"}},
	{DeviceType: "phone", Keywords: []string{"iphone", "galaxy", "phone", "pixel", "xperia", "redmi", "oneplus", "smartphone"}},
}

type serviceRule struct {
	ServiceType string
	Keywords    []string
	Excludes    []string
}

var serviceRules = []serviceRule{
	// Back glass before screen: "rear glass" must not be read as a display.
	{ServiceType: "back_cover", Keywords: []string{"back cover", "back glass", "rear glass", "rear cover", "housing", "back panel"}},
	{ServiceType: "screen_replacement", Keywords: []string{"lcd", "screen", "display", "digitizer", "touch panel", "oled", "amoled", "front glass"}},
	{ServiceType: "battery_replacement", Keywords: []string{"battery", "batteries"}},
	{ServiceType: "charging_port", Keywords: []string{"charging port", "charge port", "charging flex", "dock connector", "usb port", "charging board"}},
	{ServiceType: "camera_repair", Keywords: []string{"camera", "lens"}},
	{ServiceType: "speaker_repair", Keywords: []string{"speaker", "earpiece", "buzzer"}},
	{ServiceType: "button_repair", Keywords: []string{"home button", "power button", "volume button", "button flex"}},
}

// noisePhrases are prefix/suffix boilerplate stripped before any detection.
var noisePhrases = []string{
	"lcd assembly for",
	"replacement for",
	"compatible with",
	"compatible for",
	"suitable for",
	"brand new",
	"high quality",
	"for ",
}

var (
	bracketRe    = regexp.MustCompile(`[\[(][^\])]*[\])]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// modelPatterns are brand-specific model extractors, tried before the
// generic noun-stripping fallback.
var modelPatterns = map[string]*regexp.Regexp{
	"apple":    regexp.MustCompile(`(?i)\b(iphone\s*(?:\d{1,2}[a-z]?|se|xs|xr|x)(?:\s*(?:pro\s*max|pro|plus|max|mini|se))?|ipad(?:\s*(?:pro|air|mini))?(?:\s*\d{1,2})?|macbook(?:\s*(?:pro|air))?(?:\s*\d{2})?)\b`),
	"samsung":  regexp.MustCompile(`(?i)\b(galaxy\s*(?:s|note|a|m|z|j|tab\s*[sa]?)\s*\d{1,3}\s*(?:fe|ultra|plus|\+|edge|lite|flip|fold)?|galaxy\s*(?:z\s*)?(?:flip|fold)\s*\d?)\b`),
	"xiaomi":   regexp.MustCompile(`(?i)\b((?:redmi\s*(?:note\s*)?|poco\s*|mi\s*)[a-z]?\d{1,2}[a-z]?(?:\s*(?:pro|lite|ultra|plus|t))?)\b`),
	"google":   regexp.MustCompile(`(?i)\b(pixel\s*\d[a-z]?(?:\s*(?:pro|xl|a))?)\b`),
	"huawei":   regexp.MustCompile(`(?i)\b((?:p|mate|nova|honor)\s*\d{1,2}\s*(?:pro|lite|plus)?)\b`),
	"oneplus":  regexp.MustCompile(`(?i)\b((?:oneplus|1\+)\s*\d{1,2}\s*(?:pro|t|r|rt)?)\b`),
	"sony":     regexp.MustCompile(`(?i)\b(xperia\s*(?:\d{1,2}|[a-z]+\d*)\s*(?:iv|iii|ii|v)?)\b`),
	"motorola": regexp.MustCompile(`(?i)\b(moto\s*[gez]\d{0,2}\s*(?:power|play|plus|stylus)?)\b`),
}

// partNouns are repair-part words removed by the generic model fallback.
var partNouns = []string{
	"lcd", "oled", "amoled", "screen", "display", "digitizer", "assembly",
	"battery", "camera", "lens", "speaker", "earpiece", "flex", "cable",
	"connector", "port", "charging", "dock", "housing", "cover", "glass",
	"panel", "frame", "replacement", "repair", "part", "parts", "original",
	"genuine", "oem", "aftermarket", "copy", "quality", "new", "black",
	"white", "blue", "red", "gold", "silver", "with", "without", "and",
}

// variantWords are model suffixes the generic fallback keeps but the
// abbreviation strategy strips; listed here for the fallback's tail trim.
var fallbackTrimWords = []string{"for", "compatible", "fit", "fits"}

// qualityTags map listing tags/title words to a part grade guess.
var qualityKeywords = map[string][]string{
	"premium":  {"oem", "original", "genuine", "service pack", "pulled"},
	"economy":  {"copy", "aftermarket", "aaa", "incell", "in-cell", "budget"},
	"standard": {"refurbished", "compatible", "standard"},
}
