package extracting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/billing-recon-api/internal/domain"
)

func strValue(p *string) string {
	if p == nil {
		return "<ausente>"
	}

	return *p
}

func TestExtractEntities(t *testing.T) {
	service := NewService()

	tests := []struct {
		name     string
		text     string
		validate func(t *testing.T, e domain.ExtractedEntities)
	}{
		{
			name: "Item de veiculação com anunciante, campanha e taxa",
			text: "Advertiser:Acme,ID: 42, Campaign:Spring,ID: 77, Fee: CPM",
			validate: func(t *testing.T, e domain.ExtractedEntities) {
				assert.Equal(t, "acme", strValue(e.AdvertiserName))
				assert.Equal(t, "42", strValue(e.AdvertiserID))
				assert.Equal(t, "spring", strValue(e.CampaignName))
				assert.Equal(t, "77", strValue(e.CampaignID))
				assert.Equal(t, "cpm", strValue(e.FeeReason))
				assert.Nil(t, e.PartnerName)
				assert.Nil(t, e.PartnerID)
				assert.Nil(t, e.InsertionOrderID)
			},
		},
		{
			name: "Caminho completo com parceiro e ordem de inserção",
			text: "Partner:Reseller Co,ID: 7, Advertiser:Acme,ID: 42, Campaign:Spring,ID: 77, Insertion order:Spring Display,ID: 555",
			validate: func(t *testing.T, e domain.ExtractedEntities) {
				assert.Equal(t, "reseller co", strValue(e.PartnerName))
				assert.Equal(t, "7", strValue(e.PartnerID))
				assert.Equal(t, "42", strValue(e.AdvertiserID))
				assert.Equal(t, "77", strValue(e.CampaignID))
				assert.Equal(t, "spring display", strValue(e.InsertionOrderName))
				assert.Equal(t, "555", strValue(e.InsertionOrderID))
				assert.Nil(t, e.FeeReason)
			},
		},
		{
			name: "Item de taxa de plataforma sem entidades de veiculação",
			text: "Platform fee - self serve",
			validate: func(t *testing.T, e domain.ExtractedEntities) {
				assert.Nil(t, e.PartnerID)
				assert.Nil(t, e.AdvertiserID)
				assert.Nil(t, e.CampaignID)
				assert.Nil(t, e.InsertionOrderID)
				assert.Nil(t, e.FeeReason)
			},
		},
		{
			name: "Maiúsculas e espaços nas bordas não mudam o resultado",
			text: "   ADVERTISER:ACME,ID: 42, CAMPAIGN:SPRING,ID: 77   ",
			validate: func(t *testing.T, e domain.ExtractedEntities) {
				assert.Equal(t, "acme", strValue(e.AdvertiserName))
				assert.Equal(t, "42", strValue(e.AdvertiserID))
				assert.Equal(t, "77", strValue(e.CampaignID))
			},
		},
		{
			name: "Nome com vírgula interna é capturado inteiro",
			text: "Advertiser:Acme, Inc,ID: 42",
			validate: func(t *testing.T, e domain.ExtractedEntities) {
				assert.Equal(t, "acme, inc", strValue(e.AdvertiserName))
				assert.Equal(t, "42", strValue(e.AdvertiserID))
			},
		},
		{
			name: "Nome casado porém vazio é distinto de ausente",
			text: "Advertiser:,ID: 42",
			validate: func(t *testing.T, e domain.ExtractedEntities) {
				if assert.NotNil(t, e.AdvertiserName) {
					assert.Equal(t, "", *e.AdvertiserName)
				}
				assert.Equal(t, "42", strValue(e.AdvertiserID))
			},
		},
		{
			name: "Rótulo sem bloco de ID não casa",
			text: "Advertiser:Acme, Campaign:Spring",
			validate: func(t *testing.T, e domain.ExtractedEntities) {
				assert.Nil(t, e.AdvertiserID)
				assert.Nil(t, e.CampaignID)
			},
		},
		{
			name: "Entrada vazia produz tudo ausente",
			text: "",
			validate: func(t *testing.T, e domain.ExtractedEntities) {
				assert.Equal(t, domain.ExtractedEntities{}, e)
			},
		},
		{
			name: "Texto arbitrário nunca estoura",
			text: "id: id: id:,,,fee:fee:ção 💸 \x00",
			validate: func(t *testing.T, e domain.ExtractedEntities) {
				assert.Nil(t, e.AdvertiserID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, service.ExtractEntities(tt.text))
		})
	}
}

func TestScheduleCode(t *testing.T) {
	service := NewService()

	tests := []struct {
		name     string
		campaign string
		want     string
	}{
		{name: "Código embutido no nome", campaign: "spring abcd1234 promo", want: "abcd1234"},
		{name: "Código em maiúsculas normaliza", campaign: "Spring ABCD1234", want: "abcd1234"},
		{name: "Sem código vira sentinela", campaign: "spring promo", want: domain.ScheduleCodeUnknown},
		{name: "Cinco letras coladas não formam código", campaign: "abcde1234", want: domain.ScheduleCodeUnknown},
		{name: "Dígitos de menos não formam código", campaign: "abcd123", want: domain.ScheduleCodeUnknown},
		{name: "Nome vazio vira sentinela", campaign: "", want: domain.ScheduleCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.ScheduleCode(tt.campaign))
		})
	}
}
