package service

import (
	"regexp"
	"strconv"
	"strings"

	remarkdomain "github.com/rivierasoft/monapaie/internal/remark/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Pattern groups are evaluated top to bottom, first match wins for the
// primary type: new_hire before departure before salary_change. Bonus and
// prorate are checked on every remark and layered on the primary when one
// already matched.
var primaryGroups = []struct {
	remarkType remarkdomain.Type
	pattern    *regexp.Regexp
}{
	{remarkdomain.TypeNewHire, regexp.MustCompile(`(?i)embauch|arriv[ée]e?|nouveau\s+salari[ée]|nouvelle\s+recrue|prise\s+de\s+poste|entr[ée]e\s+le`)},
	{remarkdomain.TypeDeparture, regexp.MustCompile(`(?i)d[ée]part|d[ée]mission|licenciement|fin\s+de\s+contrat|sortie\s+le|quitte\s+l`)},
	{remarkdomain.TypeSalaryChange, regexp.MustCompile(`(?i)augmentation|revalorisation|changement\s+de\s+salaire|nouveau\s+salaire|baisse\s+de\s+salaire`)},
	{remarkdomain.TypeUnpaidLeave, regexp.MustCompile(`(?i)cong[ée]\s+sans\s+solde|sans\s+solde|absence\s+non\s+(pay[ée]e|r[ée]mun[ée]r[ée]e)`)},
}

var (
	bonusPattern   = regexp.MustCompile(`(?i)\bprime\b|\bbonus\b|gratification|13e\s+mois|13[èe]me\s+mois`)
	proratePattern = regexp.MustCompile(`(?i)prorat`)

	// date-like tokens: "le 15", "15/03", "15 mars", "1er avril"
	dayLePattern    = regexp.MustCompile(`(?i)\ble\s+(\d{1,2})(?:er)?\b`)
	daySlashPattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/\d{2,4})?\b`)
	dayMonthPattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?:er)?\s+(janvier|f[ée]vrier|mars|avril|mai|juin|juillet|ao[ûu]t|septembre|octobre|novembre|d[ée]cembre)\b`)
)

type Service struct {
	log *zap.Logger
}

type Param struct {
	fx.In

	Log *zap.Logger
}

func NewService(p Param) remarkdomain.Classifier {
	return &Service{log: p.Log.Named("remark.service")}
}

func (s *Service) Classify(text string) remarkdomain.Classification {
	return Classify(text)
}

// Classify parses a free-text remark into a structured event.
func Classify(text string) remarkdomain.Classification {
	out := remarkdomain.Classification{
		Type: remarkdomain.TypeNone,
		Raw:  text,
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return out
	}

	for _, group := range primaryGroups {
		if group.pattern.MatchString(trimmed) {
			out.Type = group.remarkType
			break
		}
	}

	out.HasBonus = bonusPattern.MatchString(trimmed)
	out.HasProrate = proratePattern.MatchString(trimmed)

	// bonus and prorate promote to primary only when nothing else matched
	if out.Type == remarkdomain.TypeNone {
		switch {
		case out.HasBonus:
			out.Type = remarkdomain.TypeBonus
		case out.HasProrate:
			out.Type = remarkdomain.TypeProrate
		}
	}

	out.Day = extractDay(trimmed)
	return out
}

func extractDay(text string) *int {
	candidates := [][]string{}
	if m := dayLePattern.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m)
	}
	if m := daySlashPattern.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m)
	}
	if m := dayMonthPattern.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m)
	}

	for _, m := range candidates {
		day, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if day >= 1 && day <= 31 {
			return &day
		}
	}
	return nil
}
