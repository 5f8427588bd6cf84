package cities

import (
	"fmt"
	"strings"
)

// City describes one of the tracked municipalities. Slug is the
// directory-safe name used for data folders and file prefixes; the
// coordinates drive geo-scoped collection queries.
type City struct {
	Name         string
	Slug         string
	Subreddit    string
	Longitude    float64
	Latitude     float64
	NewsDomains  []string
	LexisSources []string

	// GranicusHost is set only for cities whose meeting minutes live in
	// a public Granicus archive.
	GranicusHost string
}

// RadiusKm is the geo query radius applied around each city's center.
const RadiusKm = 20

// All lists every tracked city in canonical order. Output folders,
// summary rows and collection runs follow this ordering.
var All = []City{
	{
		Name: "south bend", Slug: "southbend", Subreddit: "southbend",
		Longitude: -86.25199, Latitude: 41.6764,
		NewsDomains:  []string{"southbendtribune.com"},
		LexisSources: []string{"South Bend Tribune"},
	},
	{
		Name: "rockford", Slug: "rockford", Subreddit: "rockford",
		Longitude: -89.0940, Latitude: 42.2711,
		NewsDomains:  []string{"rrstar.com"},
		LexisSources: []string{"Rockford Register Star"},
	},
	{
		Name: "kalamazoo", Slug: "kzoo", Subreddit: "kzoo",
		Longitude: -85.5872, Latitude: 42.2917,
		NewsDomains:  []string{"mlive.com"},
		LexisSources: []string{"Kalamazoo Gazette"},
	},
	{
		Name: "scranton", Slug: "scranton", Subreddit: "scranton",
		Longitude: -75.6624, Latitude: 41.4089,
		NewsDomains:  []string{"thetimes-tribune.com"},
		LexisSources: []string{"The Times-Tribune"},
	},
	{
		Name: "fayetteville", Slug: "fayetteville", Subreddit: "fayetteville",
		Longitude: -94.1574, Latitude: 36.0626,
		NewsDomains:  []string{"nwaonline.com"},
		LexisSources: []string{"Northwest Arkansas Democrat-Gazette"},
	},
	{
		Name: "san francisco", Slug: "sanfrancisco", Subreddit: "sanfrancisco",
		Longitude: -122.4194, Latitude: 37.7749,
		NewsDomains: []string{
			"sfchronicle.com",
			"sfgate.com",
			"sfexaminer.com",
			"sfpublicpress.org",
			"sfstandard.com",
			"48hills.org",
			"sfist.com",
		},
		LexisSources: []string{"The San Francisco Chronicle", "The San Francisco Examiner"},
		GranicusHost: "sanfrancisco.granicus.com",
	},
	{
		Name: "portland", Slug: "portland", Subreddit: "portland",
		Longitude: -122.6765, Latitude: 45.5231,
		NewsDomains:  []string{"oregonlive.com"},
		LexisSources: []string{"The Oregonian"},
	},
	{
		Name: "buffalo", Slug: "buffalo", Subreddit: "buffalo",
		Longitude: -78.8784, Latitude: 42.8864,
		NewsDomains:  []string{"buffalonews.com"},
		LexisSources: []string{"The Buffalo News"},
	},
	{
		Name: "baltimore", Slug: "baltimore", Subreddit: "baltimore",
		Longitude: -76.6122, Latitude: 39.2904,
		NewsDomains:  []string{"baltimoresun.com"},
		LexisSources: []string{"The Baltimore Sun"},
	},
	{
		Name: "el paso", Slug: "elpaso", Subreddit: "elpaso",
		Longitude: -106.4850, Latitude: 31.7619,
		NewsDomains:  []string{"elpasotimes.com"},
		LexisSources: []string{"El Paso Times"},
	},
}

// ByName resolves a city by display name or slug, case-insensitively.
func ByName(name string) (City, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range All {
		if c.Name == needle || c.Slug == needle {
			return c, nil
		}
	}
	return City{}, fmt.Errorf("[Cities] unknown city %q", name)
}

// Names returns the display names of every tracked city in canonical order.
func Names() []string {
	out := make([]string, len(All))
	for i, c := range All {
		out[i] = c.Name
	}
	return out
}

// PointRadius renders the city's geo filter in the point_radius query
// form used by the X API. Empty when coordinates are unknown.
func (c City) PointRadius() string {
	if c.Longitude == 0 && c.Latitude == 0 {
		return ""
	}
	return fmt.Sprintf("point_radius:[%g %g %dkm]", c.Longitude, c.Latitude, RadiusKm)
}
