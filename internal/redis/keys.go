package redis

import "fmt"

const ns = "voyago:v1"

func KeyCities() string {
	return ns + ":catalog:cities"
}

func KeyCountries() string {
	return ns + ":catalog:countries"
}

func KeyDestinations(day string) string {
	return fmt.Sprintf("%s:catalog:destinations:%s", ns, day)
}

func KeyPublicHotels() string {
	return ns + ":catalog:hotels"
}

func KeyCityPackages(cityID int64, day string) string {
	return fmt.Sprintf("%s:catalog:city:%d:packages:%s", ns, cityID, day)
}

func KeyExcursions(cityID int64) string {
	return fmt.Sprintf("%s:catalog:city:%d:excursions", ns, cityID)
}

// KeyRateLimit is a limiter prefix; the limiter appends the caller identity.
func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func ChannelCatalogChanged() string {
	return ns + ":catalog:changed"
}
