package utils

import (
	"sort"
	"strings"
)

var acronyms = map[string]string{
	"std":   "STD",
	"dmv":   "DMV",
	"obgyn": "OBGYN",
}

// HumanReadable turns a snake_case or kebab-case collection name into a display
// name: first word capitalized, the rest lower case, known acronyms upper case.
//
//	dental_clinics            -> Dental clinics
//	std_testing_and_treatment -> STD testing and treatment
//	business-dmv-details      -> Business DMV details
func HumanReadable(name string) string {
	words := strings.Split(strings.NewReplacer("_", " ", "-", " ").Replace(name), " ")
	for i, word := range words {
		lower := strings.ToLower(word)
		if acronym, ok := acronyms[lower]; ok {
			words[i] = acronym
			continue
		}
		if i == 0 && lower != "" {
			words[i] = strings.ToUpper(lower[:1]) + lower[1:]
			continue
		}
		words[i] = lower
	}
	return strings.Join(words, " ")
}

// CategoriesFromCollections maps collection names to sorted display names,
// skipping system collections.
func CategoriesFromCollections(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, "system.") {
			continue
		}
		out = append(out, HumanReadable(name))
	}
	sort.Strings(out)
	return out
}
