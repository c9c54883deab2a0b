package geo

import "strings"

// keywordZone pairs a place-name substring with its timezone. The slice is
// checked in order; the first match wins, so more specific city names come
// before country-level catch-alls.
type keywordZone struct {
	keyword string
	zone    string
}

var keywordZones = []keywordZone{
	{"new york", "America/New_York"},
	{"los angeles", "America/Los_Angeles"},
	{"san francisco", "America/Los_Angeles"},
	{"chicago", "America/Chicago"},
	{"denver", "America/Denver"},
	{"toronto", "America/Toronto"},
	{"mexico city", "America/Mexico_City"},
	{"sao paulo", "America/Sao_Paulo"},
	{"london", "Europe/London"},
	{"paris", "Europe/Paris"},
	{"berlin", "Europe/Berlin"},
	{"madrid", "Europe/Madrid"},
	{"rome", "Europe/Rome"},
	{"athens", "Europe/Athens"},
	{"moscow", "Europe/Moscow"},
	{"istanbul", "Europe/Istanbul"},
	{"cairo", "Africa/Cairo"},
	{"lagos", "Africa/Lagos"},
	{"johannesburg", "Africa/Johannesburg"},
	{"dubai", "Asia/Dubai"},
	{"mumbai", "Asia/Kolkata"},
	{"delhi", "Asia/Kolkata"},
	{"bangkok", "Asia/Bangkok"},
	{"singapore", "Asia/Singapore"},
	{"hong kong", "Asia/Hong_Kong"},
	{"shanghai", "Asia/Shanghai"},
	{"beijing", "Asia/Shanghai"},
	{"tokyo", "Asia/Tokyo"},
	{"seoul", "Asia/Seoul"},
	{"sydney", "Australia/Sydney"},
	{"melbourne", "Australia/Melbourne"},
	{"auckland", "Pacific/Auckland"},
	{"india", "Asia/Kolkata"},
	{"japan", "Asia/Tokyo"},
	{"china", "Asia/Shanghai"},
	{"australia", "Australia/Sydney"},
	{"united kingdom", "Europe/London"},
	{"england", "Europe/London"},
	{"france", "Europe/Paris"},
	{"germany", "Europe/Berlin"},
	{"spain", "Europe/Madrid"},
	{"italy", "Europe/Rome"},
	{"canada", "America/Toronto"},
	{"brazil", "America/Sao_Paulo"},
	{"united states", "America/New_York"},
	{"usa", "America/New_York"},
}

func zoneForKeyword(place string) (string, bool) {
	lower := strings.ToLower(place)
	for _, kz := range keywordZones {
		if strings.Contains(lower, kz.keyword) {
			return kz.zone, true
		}
	}
	return "", false
}

// zoneForLongitude bands the longitude into eight coarse ranges and returns
// a representative zone for each band. Approximate by construction: the
// product needs a plausible wall-clock offset, not survey-grade geodata.
func zoneForLongitude(lon float64) string {
	switch {
	case lon < -100:
		return "America/Los_Angeles"
	case lon < -60:
		return "America/New_York"
	case lon < 0:
		return "Europe/London"
	case lon < 30:
		return "Europe/Paris"
	case lon < 60:
		return "Asia/Dubai"
	case lon < 100:
		return "Asia/Kolkata"
	case lon < 130:
		return "Asia/Shanghai"
	default:
		return "Asia/Tokyo"
	}
}
