package search

import "strings"

// intentMap expands colloquial shopping intents into literal search terms.
// Loaded once, never mutated. Several entries carry transliterated Hindi
// terms because the catalog keywords do too.
var intentMap = map[string][]string{
	"cold":      {"cold", "flu", "fever", "cough", "sardi", "khansi", "bukhar", "paracetamol"},
	"headache":  {"headache", "pain relief", "paracetamol", "fever"},
	"fever":     {"fever", "paracetamol", "bukhar", "cold"},
	"hungry":    {"snack", "biscuit", "chips", "namkeen", "chocolate"},
	"thirsty":   {"water", "juice", "cold drink", "soda", "paani"},
	"breakfast": {"milk", "bread", "butter", "tea", "biscuit", "chai"},
	"cooking":   {"oil", "spice", "masala", "salt", "rice", "atta"},
	"cleaning":  {"soap", "hand wash", "sanitizer", "dettol"},
	"hair":      {"shampoo", "hair care", "hair wash", "conditioner"},
	"teeth":     {"toothpaste", "dental", "dant manjan"},
	"skin":      {"face wash", "cream", "soap", "skin care"},
	"baby":      {"diaper", "baby food", "milk", "powder"},
	"sweet":     {"chocolate", "biscuit", "ice cream", "candy", "mithai", "sugar"},
	"spicy":     {"chili", "masala", "mirch", "garam masala"},
	"drink":     {"cold drink", "juice", "soda", "water", "coke", "pepsi"},
	"fruit":     {"banana", "apple", "mango", "fruit", "kela", "seb"},
	"vegetable": {"tomato", "onion", "peas", "sabji", "tamatar", "pyaaz"},
}

// expandQuery turns a query into a de-duplicated term set: the query itself
// plus the synonyms of every intent key found as a substring. Never empty.
func expandQuery(query string) []string {
	q := strings.ToLower(query)
	terms := []string{q}
	seen := map[string]struct{}{q: {}}

	for intent, synonyms := range intentMap {
		if !strings.Contains(q, intent) {
			continue
		}
		for _, s := range synonyms {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			terms = append(terms, s)
		}
	}
	return terms
}
