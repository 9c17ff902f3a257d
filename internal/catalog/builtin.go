package catalog

import "flagquiz/internal/domain"

// Builtin returns the default 73-country catalog.
func Builtin() []domain.CatalogEntry {
	entries := make([]domain.CatalogEntry, 0, len(easy)+len(medium)+len(hard))
	entries = append(entries, tier(domain.Easy, easy)...)
	entries = append(entries, tier(domain.Medium, medium)...)
	return append(entries, tier(domain.Hard, hard)...)
}

func tier(d domain.Difficulty, pairs [][2]string) []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, len(pairs))
	for i, p := range pairs {
		out[i] = domain.CatalogEntry{Symbol: p[0], Name: p[1], Tier: d}
	}
	return out
}

var easy = [][2]string{
	{"🇺🇸", "United States"},
	{"🇬🇧", "United Kingdom"},
	{"🇫🇷", "France"},
	{"🇩🇪", "Germany"},
	{"🇮🇹", "Italy"},
	{"🇪🇸", "Spain"},
	{"🇨🇦", "Canada"},
	{"🇦🇺", "Australia"},
	{"🇯🇵", "Japan"},
	{"🇨🇳", "China"},
	{"🇧🇷", "Brazil"},
	{"🇮🇳", "India"},
	{"🇷🇺", "Russia"},
	{"🇲🇽", "Mexico"},
	{"🇰🇷", "South Korea"},
	{"🇳🇱", "Netherlands"},
	{"🇸🇪", "Sweden"},
	{"🇳🇴", "Norway"},
	{"🇨🇭", "Switzerland"},
	{"🇦🇹", "Austria"},
}

var medium = [][2]string{
	{"🇵🇱", "Poland"},
	{"🇺🇦", "Ukraine"},
	{"🇹🇷", "Turkey"},
	{"🇬🇷", "Greece"},
	{"🇵🇹", "Portugal"},
	{"🇧🇪", "Belgium"},
	{"🇩🇰", "Denmark"},
	{"🇫🇮", "Finland"},
	{"🇮🇪", "Ireland"},
	{"🇮🇸", "Iceland"},
	{"🇨🇿", "Czech Republic"},
	{"🇭🇺", "Hungary"},
	{"🇷🇴", "Romania"},
	{"🇧🇬", "Bulgaria"},
	{"🇭🇷", "Croatia"},
	{"🇸🇰", "Slovakia"},
	{"🇸🇮", "Slovenia"},
	{"🇪🇪", "Estonia"},
	{"🇱🇻", "Latvia"},
	{"🇱🇹", "Lithuania"},
	{"🇲🇹", "Malta"},
	{"🇨🇾", "Cyprus"},
	{"🇱🇺", "Luxembourg"},
	{"🇦🇩", "Andorra"},
	{"🇲🇨", "Monaco"},
}

var hard = [][2]string{
	{"🇦🇫", "Afghanistan"},
	{"🇦🇱", "Albania"},
	{"🇩🇿", "Algeria"},
	{"🇦🇴", "Angola"},
	{"🇦🇷", "Argentina"},
	{"🇦🇲", "Armenia"},
	{"🇦🇿", "Azerbaijan"},
	{"🇧🇭", "Bahrain"},
	{"🇧🇩", "Bangladesh"},
	{"🇧🇾", "Belarus"},
	{"🇧🇿", "Belize"},
	{"🇧🇯", "Benin"},
	{"🇧🇹", "Bhutan"},
	{"🇧🇴", "Bolivia"},
	{"🇧🇦", "Bosnia and Herzegovina"},
	{"🇧🇼", "Botswana"},
	{"🇧🇳", "Brunei"},
	{"🇧🇫", "Burkina Faso"},
	{"🇧🇮", "Burundi"},
	{"🇰🇭", "Cambodia"},
	{"🇨🇲", "Cameroon"},
	{"🇨🇻", "Cape Verde"},
	{"🇨🇫", "Central African Republic"},
	{"🇹🇩", "Chad"},
	{"🇨🇱", "Chile"},
	{"🇨🇴", "Colombia"},
	{"🇰🇲", "Comoros"},
	{"🇨🇬", "Congo"},
}
