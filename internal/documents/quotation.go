package documents

import (
	"fmt"
	"time"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/types"
)

const (
	quotationPrefix = "COT"
	warrantyMonths  = 12
	downPaymentPct  = 50
)

// FormatQuotationNumber renders a sequence number as COT-YYYYMMDD-NNNN
func FormatQuotationNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", quotationPrefix, day.Format("20060102"), seq)
}

// Quotation prices the service and assembles a quotation. Totals satisfy
// subtotal = Σ line totals, tax = round(subtotal × rate) and total = round(subtotal + tax).
func (b *Builder) Quotation(category types.ServiceCategory, tier types.Tier, entities types.ExtractedEntities, dc Context) types.QuotationDocument {
	svc := b.service(category)
	items := b.cat.LineItemsFor(category, tier, entities)

	subtotal := sumTotals(items)
	tax := catalog.RoundCents(subtotal * b.cat.TaxRate())
	total := catalog.RoundCents(subtotal + tax)

	number := dc.Number
	if number == "" {
		number = fmt.Sprintf("%s-DRAFT-%s", quotationPrefix, svc.Code)
	}

	days := executionDays(area(svc, entities))
	description := dc.Description
	if description == "" {
		description = fmt.Sprintf("%s, %.0f m²", svc.Name, area(svc, entities))
	}

	return types.QuotationDocument{
		Number:           number,
		Service:          category,
		ServiceName:      svc.Name,
		Tier:             tier,
		Client:           clientName(entities, dc),
		Description:      description,
		IssueDate:        formatDate(dc.IssueDate),
		Items:            items,
		Subtotal:         subtotal,
		TaxRate:          b.cat.TaxRate(),
		Tax:              tax,
		Total:            total,
		Currency:         b.cat.Currency(),
		ValidityDays:     b.cat.ValidityDays(),
		Validity:         fmt.Sprintf("%d calendar days", b.cat.ValidityDays()),
		ExecutionDays:    days,
		Observations:     b.observations(svc, tier, entities, days),
		Standards:        svc.Standards,
		Entities:         entities,
		PendingQuestions: pendingQuestions(svc, entities, dc),
	}
}

// executionDays estimates the calendar days needed on site from the area
func executionDays(areaM2 float64) int {
	switch {
	case areaM2 < 100:
		return 15
	case areaM2 < 300:
		return 30
	case areaM2 < 500:
		return 45
	default:
		return 60
	}
}

func (b *Builder) observations(svc catalog.Service, tier types.Tier, entities types.ExtractedEntities, days int) []string {
	obs := []string{
		fmt.Sprintf("Prices in %s; sales tax of %.0f%% shown separately", b.cat.Currency(), b.cat.TaxRate()*100),
		fmt.Sprintf("Estimated execution time: %d calendar days from down payment", days),
		fmt.Sprintf("Warranty: %d months on workmanship and materials", warrantyMonths),
		fmt.Sprintf("Payment terms: %d%% down payment, %d%% on completion", downPaymentPct, 100-downPaymentPct),
	}
	if svc.Standards != "" {
		obs = append(obs, "Work complies with "+svc.Standards)
	}
	switch entities.InstallationType {
	case types.InstallationRemodel:
		obs = append(obs, "Includes removal and disposal of the existing installation")
	case types.InstallationExpansion:
		obs = append(obs, "Existing installation to be verified before tie-in")
	}
	if tier.IsComplex() {
		obs = append(obs, "Includes detailed engineering and commissioning documentation")
	}
	return obs
}
