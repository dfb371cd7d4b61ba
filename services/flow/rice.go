package flow

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"villacarmen/models"

	"go.uber.org/zap"
)

// Words ignored when looking for a significant keyword in a rice reply.
var riceStopWords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true,
	"un": true, "una": true, "unos": true, "unas": true,
	"de": true, "del": true, "por": true, "para": true,
	"quiero": true, "queremos": true, "quisiera": true,
	"favor": true, "gracias": true, "mejor": true,
	"arroz": true, "paella": true, "raciones": true,
}

var ordinalPositions = []struct {
	word string
	pos  int
}{
	{"primer", 1}, {"1º", 1}, {"1ª", 1},
	{"segund", 2}, {"2º", 2}, {"2ª", 2},
	{"tercer", 3}, {"3º", 3}, {"3ª", 3},
	{"cuart", 4}, {"4º", 4}, {"4ª", 4},
}

var (
	dePattern      = regexp.MustCompile(`(?i)\bde(?:\s+la|\s+el)?\s+([\p{L}]+)`)
	articlePattern = regexp.MustCompile(`(?i)\b(?:el|la)\s+(\d)\b`)
)

// matchRiceOption resolves a customer reply against an option list using
// the deterministic rule ladder: bare position number, ordinal phrase,
// unique significant keyword, "de <word>" substring. Returns the 0-based
// index, or ok=false when nothing matches unambiguously.
func matchRiceOption(reply string, options []string) (int, bool) {
	text := strings.TrimSpace(strings.ToLower(foldAccents(reply)))
	if text == "" || len(options) == 0 {
		return 0, false
	}

	// (a) bare integer, 1-based.
	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return 0, false
	}

	// (b) ordinal phrase ("la primera", "el 2").
	for _, ord := range ordinalPositions {
		if strings.Contains(text, ord.word) && ord.pos <= len(options) {
			return ord.pos - 1, true
		}
	}
	if m := articlePattern.FindStringSubmatch(text); m != nil {
		if n, _ := strconv.Atoi(m[1]); n >= 1 && n <= len(options) {
			return n - 1, true
		}
	}

	folded := make([]string, len(options))
	for i, opt := range options {
		folded[i] = strings.ToLower(foldAccents(opt))
	}

	// (c) a significant keyword appearing in exactly one option.
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == 'ñ')
	}) {
		if len([]rune(word)) < 4 || riceStopWords[word] {
			continue
		}
		hit := -1
		for i, opt := range folded {
			if strings.Contains(opt, word) {
				if hit >= 0 {
					hit = -1
					break
				}
				hit = i
			}
		}
		if hit >= 0 {
			return hit, true
		}
	}

	// (d) "de/de la <word>" substring match.
	if m := dePattern.FindStringSubmatch(text); m != nil {
		word := strings.ToLower(foldAccents(m[1]))
		for i, opt := range folded {
			if strings.Contains(opt, word) {
				return i, true
			}
		}
	}

	return 0, false
}

// matchCatalog resolves a free-text rice request against the house catalog.
// Returns the single matching name, or the ambiguous candidates.
func matchCatalog(request string, catalog []string) (name string, candidates []string) {
	text := strings.ToLower(foldAccents(request))

	for _, word := range strings.Fields(text) {
		if len([]rune(word)) < 4 || riceStopWords[word] {
			continue
		}
		for _, opt := range catalog {
			if strings.Contains(strings.ToLower(foldAccents(opt)), word) && !contains(candidates, opt) {
				candidates = append(candidates, opt)
			}
		}
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return "", candidates
}

// guardRiceDisambiguation resumes a pending rice selection: the reply is
// matched against the stored option list; on success the dish is merged
// into the draft and booking handling re-enters, otherwise the numbered
// options are re-prompted.
func (f *DefaultFlow) guardRiceDisambiguation(ctx context.Context, t *turn) (models.FlowResponse, bool) {
	pending, ok, err := f.Stores.Rice.Get(ctx, t.phone)
	if err != nil || !ok {
		return models.FlowResponse{}, false
	}

	idx, matched := matchRiceOption(t.text, pending.Options)
	if !matched {
		return models.FlowResponse{
			Text: fmt.Sprintf("¿Cuál de estos arroces queréis?\n%s\n\nResponde con el número o el nombre.", numberedList(pending.Options)),
		}, true
	}

	f.Stores.Rice.Clear(ctx, t.phone)

	draft, _, err := f.Stores.Drafts.Get(ctx, t.phone)
	if err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone)), true
	}
	draft.Rice = models.RiceChoice{State: models.RiceNamed, Name: pending.Options[idx]}
	if err := f.Stores.Drafts.Set(ctx, t.phone, draft); err != nil {
		return failure(errSessionStore, err, zap.String("phone", t.phone)), true
	}

	t.signal.Intent = models.IntentBooking
	return f.handleBooking(ctx, t), true
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ü", "U",
)

func foldAccents(s string) string {
	return accentFolder.Replace(s)
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}
