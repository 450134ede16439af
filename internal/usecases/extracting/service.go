package extracting

import (
	"regexp"
	"strings"

	"github.com/vfg2006/billing-recon-api/internal/domain"
)

// Extractor garimpa identificadores estruturados do texto livre dos itens de
// fatura. A extração é total: qualquer entrada produz um resultado com cada
// campo casado ou explicitamente ausente — nunca um erro.
type Extractor interface {
	ExtractEntities(text string) domain.ExtractedEntities
	ScheduleCode(campaignName string) string
}

// Padrões fixos de campo rotulado, na forma `rótulo:<valor>...id: <dígitos>`.
// O texto é normalizado (trim + minúsculas) antes do casamento para que
// diferenças cosméticas entre re-uploads não criem grupos espúrios.
var (
	partnerPattern        = regexp.MustCompile(`partner:(.*?),\s*id:\s*(\d+)`)
	advertiserPattern     = regexp.MustCompile(`advertiser:(.*?),\s*id:\s*(\d+)`)
	campaignPattern       = regexp.MustCompile(`campaign:(.*?),\s*id:\s*(\d+)`)
	insertionOrderPattern = regexp.MustCompile(`insertion order:(.*?),\s*id:\s*(\d+)`)
	feePattern            = regexp.MustCompile(`fee:\s*([^,]+)`)

	// Código de agendamento embutido no nome da campanha: exatamente 4
	// letras seguidas de 4 dígitos.
	scheduleCodePattern = regexp.MustCompile(`\b[a-z]{4}[0-9]{4}\b`)
)

type Service struct{}

func NewService() Extractor {
	return &Service{}
}

func (s *Service) ExtractEntities(text string) domain.ExtractedEntities {
	normalized := strings.ToLower(strings.TrimSpace(text))

	entities := domain.ExtractedEntities{}
	entities.PartnerName, entities.PartnerID = matchLabel(partnerPattern, normalized)
	entities.AdvertiserName, entities.AdvertiserID = matchLabel(advertiserPattern, normalized)
	entities.CampaignName, entities.CampaignID = matchLabel(campaignPattern, normalized)
	entities.InsertionOrderName, entities.InsertionOrderID = matchLabel(insertionOrderPattern, normalized)

	if m := feePattern.FindStringSubmatch(normalized); m != nil {
		reason := strings.TrimSpace(m[1])
		entities.FeeReason = &reason
	}

	return entities
}

// ScheduleCode extrai o código de agendamento do nome de campanha; ausência
// vira o sentinela "unknown" para que caminhos sem código continuem
// agrupáveis em vez de descartados.
func (s *Service) ScheduleCode(campaignName string) string {
	normalized := strings.ToLower(strings.TrimSpace(campaignName))

	if code := scheduleCodePattern.FindString(normalized); code != "" {
		return code
	}

	return domain.ScheduleCodeUnknown
}

// matchLabel devolve a primeira captura como nome e o grupo de dígitos como
// ID. Rótulo ausente no texto produz os dois campos ausentes; nome casado
// porém vazio continua distinto de ausente.
func matchLabel(pattern *regexp.Regexp, text string) (*string, *string) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}

	name := strings.TrimSpace(m[1])
	id := m[2]

	return &name, &id
}
