// Package responses selects the flavor text the bot attaches to
// analysis results and duel outcomes. The text tables live in embedded
// YAML resources so they can be edited without touching code.
package responses

import (
	"embed"
	"fmt"
	"math/rand"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed resources/*.yaml
var resourceFS embed.FS

// DuelOutcome is a rendered duel announcement.
type DuelOutcome struct {
	Title       string
	Description string
}

type duelTemplate struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type analysisFile struct {
	Fallback  []string                       `yaml:"fallback"`
	Responses map[string]map[string][]string `yaml:"responses"`
}

type duelsFile struct {
	Wins []duelTemplate `yaml:"wins"`
	Ties []duelTemplate `yaml:"ties"`
}

type primatesFile struct {
	Types []string `yaml:"types"`
}

var (
	analysisTable analysisFile
	duelTable     duelsFile
	primateTypes  []string
)

func init() {
	mustLoad("resources/analysis.yaml", &analysisTable)
	mustLoad("resources/duels.yaml", &duelTable)

	var pf primatesFile
	mustLoad("resources/primates.yaml", &pf)
	primateTypes = pf.Types

	if len(analysisTable.Fallback) == 0 || len(duelTable.Wins) == 0 ||
		len(duelTable.Ties) == 0 || len(primateTypes) == 0 {
		panic("responses: embedded resource tables are incomplete")
	}
}

func mustLoad(name string, out any) {
	data, err := resourceFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("responses: missing embedded resource %s: %v", name, err))
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("responses: malformed embedded resource %s: %v", name, err))
	}
}

// iqBand maps an IQ score to its response-table key.
func iqBand(iq int) string {
	switch {
	case iq == 0:
		return "iq_0"
	case iq <= 39:
		return "iq_very_low"
	case iq <= 59:
		return "iq_low"
	case iq <= 120:
		return "iq_average"
	case iq <= 160:
		return "iq_high"
	case iq <= 199:
		return "iq_genius"
	default:
		return "iq_200"
	}
}

// purityBand maps a purity score to its response-table key.
func purityBand(purity int) string {
	switch {
	case purity == 0:
		return "mp_0"
	case purity <= 24:
		return "mp_barely"
	case purity <= 49:
		return "mp_half"
	case purity <= 74:
		return "mp_mostly"
	case purity <= 99:
		return "mp_almost_pure"
	default:
		return "mp_pure"
	}
}

// RandomPrimate returns a random primate type for flavor text.
func RandomPrimate() string {
	return primateTypes[rand.Intn(len(primateTypes))]
}

// pluralize produces a usable plural for the embedded primate types,
// including multi-word ones like "Spider Monkey".
func pluralize(primate string) string {
	switch {
	case strings.HasSuffix(primate, "ey"):
		return primate + "s"
	case strings.HasSuffix(primate, "y"):
		return primate[:len(primate)-1] + "ies"
	case strings.HasSuffix(primate, "s"), strings.HasSuffix(primate, "x"):
		return primate + "es"
	default:
		return primate + "s"
	}
}

// Analysis renders the announcement for a single analysis result. The
// band pair picks a template list; pairs without dedicated text fall
// back to the generic templates.
func Analysis(iq, purity int) string {
	primate := RandomPrimate()

	pool := analysisTable.Fallback
	if byPurity, ok := analysisTable.Responses[iqBand(iq)]; ok {
		if templates, ok := byPurity[purityBand(purity)]; ok && len(templates) > 0 {
			pool = templates
		}
	}
	template := pool[rand.Intn(len(pool))]

	return strings.NewReplacer(
		"{iq}", fmt.Sprintf("%d", iq),
		"{purity}", fmt.Sprintf("%d", purity),
		"{primate}", primate,
		"{primates}", pluralize(primate),
	).Replace(template)
}

// Duel renders the announcement for a finished duel. A nil winnerName
// means the duel was a tie.
func Duel(challengerName, opponentName string, challengerScore, opponentScore int) DuelOutcome {
	primate := RandomPrimate()
	replacements := []string{
		"{primate}", primate,
		"{primates}", pluralize(primate),
	}

	var tmpl duelTemplate
	if challengerScore == opponentScore {
		tmpl = duelTable.Ties[rand.Intn(len(duelTable.Ties))]
		replacements = append(replacements,
			"{challenger}", challengerName,
			"{opponent}", opponentName,
			"{score}", fmt.Sprintf("%d", challengerScore),
		)
	} else {
		winner, loser := challengerName, opponentName
		winnerScore, loserScore := challengerScore, opponentScore
		if opponentScore > challengerScore {
			winner, loser = opponentName, challengerName
			winnerScore, loserScore = opponentScore, challengerScore
		}
		tmpl = duelTable.Wins[rand.Intn(len(duelTable.Wins))]
		replacements = append(replacements,
			"{winner}", winner,
			"{loser}", loser,
			"{winner_score}", fmt.Sprintf("%d", winnerScore),
			"{loser_score}", fmt.Sprintf("%d", loserScore),
		)
	}

	r := strings.NewReplacer(replacements...)
	return DuelOutcome{
		Title:       r.Replace(tmpl.Title),
		Description: r.Replace(tmpl.Description),
	}
}
