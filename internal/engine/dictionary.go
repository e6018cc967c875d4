package engine

import "regexp"

// Dictionaries bundles every fixed table the normalizer and extractor
// consult: known entities with their canonical spellings, ordered action and
// target patterns, negation markers, stopwords, and the alias folds applied
// during normalization. The tables are built once at startup and passed in
// explicitly; nothing in the engine reads ambient state.
//
// Pattern order is a contract, not an implementation detail: the first
// matching action/target wins, so reordering entries changes tie-breaks
// between overlapping patterns.
type Dictionaries struct {
	Entities  []EntityRule
	Actions   []ActionRule
	Targets   []TargetRule
	Negations []*regexp.Regexp
	Stopwords map[string]bool
	Aliases   []Alias
}

// EntityRule recognizes one known person, organization, or country and maps
// it to its canonical token ("elon" and "musk" both yield "musk").
type EntityRule struct {
	re        *regexp.Regexp
	Canonical string
}

// ActionRule is one event-type tag with its trigger patterns.
type ActionRule struct {
	Tag      string
	patterns []*regexp.Regexp
}

// TargetRule is one role/award tag with its trigger pattern.
type TargetRule struct {
	Tag     string
	pattern *regexp.Regexp
}

// Alias is a word-boundary replacement applied during normalization.
// Replacement tokens never retrigger another alias, which keeps
// normalization idempotent.
type Alias struct {
	re   *regexp.Regexp
	repl string
}

// persons are the known people, in normalized spelling. Multi-token names
// are listed alongside their short forms so either spelling matches.
var persons = []string{
	"trump", "biden", "harris", "obama", "putin", "zelenskyy", "zelensky", "xi jinping", "xi",
	"netanyahu", "kim jong un", "kim", "modi", "macron", "scholz", "trudeau", "starmer",
	"musk", "elon", "bezos", "zuckerberg", "altman", "nadella", "cook", "pichai",
	"kevin warsh", "warsh", "kevin hassett", "hassett", "jerome powell", "powell", "yellen",
	"pete hegseth", "hegseth", "marco rubio", "rubio", "tulsi gabbard", "gabbard",
	"pam bondi", "bondi", "rfk", "kennedy", "kristi noem", "noem", "vivek", "ramaswamy",
	"desantis", "newsom", "vance", "walz", "pelosi", "mcconnell", "schumer",
	"lewandowski", "ronaldo", "messi", "lebron", "curry", "mahomes", "swift", "beyonce",
	"sam bankman fried", "sbf", "cz", "changpeng zhao", "gary gensler", "gensler",
	"assange", "snowden", "bannon", "gaetz", "hunter biden",
}

// countriesOrgs are the known countries, institutions, and companies.
var countriesOrgs = []string{
	"us", "usa", "united states", "america", "russia", "ukraine", "china", "israel",
	"iran", "north korea", "gaza", "taiwan", "nato", "eu", "european union",
	"fed", "federal reserve", "sec", "doj", "fbi", "cia", "pentagon",
	"openai", "anthropic", "google", "meta", "microsoft", "apple", "amazon", "nvidia",
	"tesla", "spacex", "twitter", "x", "tiktok", "bytedance", "bitcoin", "btc", "ethereum", "eth",
}

// canonicalEntity folds alias spellings to one canonical token. Entries not
// listed here are their own canonical form. The warsh/hassett first-name
// folds are kept as-is for compatibility with historical match keys.
var canonicalEntity = map[string]string{
	"zelensky":        "zelenskyy",
	"elon":            "musk",
	"kevin warsh":     "warsh",
	"kevin hassett":   "hassett",
	"jerome powell":   "powell",
	"pete hegseth":    "hegseth",
	"marco rubio":     "rubio",
	"tulsi gabbard":   "gabbard",
	"pam bondi":       "bondi",
	"kristi noem":     "noem",
	"xi jinping":      "xi",
	"kim jong un":     "kim",
	"hunter biden":    "biden",
	"changpeng zhao":  "cz",
	"gary gensler":    "gensler",
	"sam bankman fried": "sbf",
	"united states":   "usa",
	"us":              "usa",
	"america":         "usa",
	"federal reserve": "fed",
	"european union":  "eu",
	"btc":             "bitcoin",
	"eth":             "ethereum",
}

// actionTable lists event-type tags with their trigger patterns. First tag
// whose any pattern matches wins, so broader tags (e.g. "launch") sit after
// the specific ones they would otherwise shadow.
var actionTable = []struct {
	tag      string
	patterns []string
}{
	{"nominate", []string{`nominate`, `announce.*as`, `name.*as`, `pick.*for`, `choose.*as`}},
	{"meet", []string{`meet`, `meeting`, `summit`, `talks with`, `meet with`}},
	{"visit", []string{`visit`}},
	{"resign", []string{`resign`, `step down`, `leave`, `out as`, `depart`}},
	{"fire", []string{`fire`, `remove`, `oust`, `dismiss`}},
	{"win", []string{`win`, `wins`, `victory`, `champion`, `beat`}},
	{"lose", []string{`lose`, `loses`, `defeat`, `eliminated`}},
	{"reach_price", []string{`reach \$`, `hit \$`, `above \$`, `below \$`, `at \$`}},
	{"acquire", []string{`acquire`, `buy`, `purchase`, `merger`, `takeover`}},
	{"ban", []string{`ban`, `prohibit`, `block`, `sanction`}},
	{"pardon", []string{`pardon`}},
	{"indict", []string{`indict`, `charge`, `prosecute`, `arrest`}},
	{"die", []string{`die`, `death`, `pass away`, `assassinate`}},
	{"war", []string{`war`, `invasion`, `attack`, `strike`, `bomb`}},
	{"ceasefire", []string{`ceasefire`, `peace`, `truce`, `armistice`}},
	{"recession", []string{`recession`}},
	{"rate", []string{`rate cut`, `rate hike`, `interest rate`}},
	{"ipo", []string{`ipo`, `go public`, `listing`}},
	{"launch", []string{`launch`, `release`, `announce`, `unveil`}},
}

// targetTable lists role/award tags in priority order. The currency-amount
// price-target pattern is the catch-all and must stay last.
var targetTable = []struct {
	tag     string
	pattern string
}{
	{"fed_chair", `fed chair|federal reserve chair`},
	{"pm", `prime minister|pm of`},
	{"ceo", `ceo of \w+`},
	{"president", `president of`},
	{"super_bowl", `super bowl`},
	{"world_series", `world series`},
	{"championship", `championship`},
	{"price_target", `\$[\d,]+`},
}

// negationMarkers are matched as whole words against normalized text, where
// apostrophes have already been folded to spaces ("won't" -> "won t").
var negationMarkers = []string{
	`\bnot\b`, `\bwon t\b`, `\bwont\b`, `\bnever\b`, `\bno\b`, `\brefuses?\b`, `\bfails?\b`,
}

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "in": true, "to": true, "for": true, "is": true,
	"on": true, "at": true, "by": true, "be": true, "it": true,
	"will": true, "vs": true, "with": true, "this": true, "that": true,
}

// aliasTable folds team names to their city token and league long names to
// the common abbreviation, so "Chiefs win the Super Bowl" and "Kansas City
// wins Super Bowl LX" tokenize alike.
var aliasTable = []struct{ from, to string }{
	{"national football league", "nfl"},
	{"national basketball association", "nba"},
	{"major league baseball", "mlb"},
	{"national hockey league", "nhl"},
	{"english premier league", "epl"},
	{"chiefs", "kansas city"},
	{"eagles", "philadelphia"},
	{"cowboys", "dallas"},
	{"bills", "buffalo"},
	{"ravens", "baltimore"},
	{"packers", "green bay"},
	{"lakers", "los angeles"},
	{"celtics", "boston"},
	{"knicks", "new york"},
	{"warriors", "golden state"},
	{"yankees", "new york"},
	{"dodgers", "los angeles"},
}

// DefaultDictionaries compiles the built-in tables. Call once at startup and
// share the result; Dictionaries is immutable after construction.
func DefaultDictionaries() *Dictionaries {
	d := &Dictionaries{Stopwords: stopwords}

	for _, entry := range append(append([]string{}, persons...), countriesOrgs...) {
		canon := entry
		if c, ok := canonicalEntity[entry]; ok {
			canon = c
		}
		d.Entities = append(d.Entities, EntityRule{
			re:        regexp.MustCompile(`\b` + regexp.QuoteMeta(entry) + `\b`),
			Canonical: canon,
		})
	}

	for _, a := range actionTable {
		rule := ActionRule{Tag: a.tag}
		for _, p := range a.patterns {
			rule.patterns = append(rule.patterns, regexp.MustCompile(p))
		}
		d.Actions = append(d.Actions, rule)
	}

	for _, t := range targetTable {
		d.Targets = append(d.Targets, TargetRule{Tag: t.tag, pattern: regexp.MustCompile(t.pattern)})
	}

	for _, n := range negationMarkers {
		d.Negations = append(d.Negations, regexp.MustCompile(n))
	}

	for _, a := range aliasTable {
		d.Aliases = append(d.Aliases, Alias{
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(a.from) + `\b`),
			repl: a.to,
		})
	}

	return d
}
