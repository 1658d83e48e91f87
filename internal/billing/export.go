package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/swimschool/billing/internal/domain"
)

// DefaultProgressTemplate шаблон строки прогресса ("N из M")
const DefaultProgressTemplate = "{current} מתוך {total}"

// ProgressTemplate форматирует прогресс по шаблону с подстановками {current} и {total}
type ProgressTemplate string

// Format подставляет значения прогресса в шаблон
func (t ProgressTemplate) Format(p domain.Progress) string {
	tmpl := string(t)
	if tmpl == "" {
		tmpl = DefaultProgressTemplate
	}
	return strings.NewReplacer(
		"{current}", strconv.Itoa(p.Current),
		"{total}", strconv.Itoa(p.Total),
	).Replace(tmpl)
}

// Snapshot содержит загруженные из хранилища сущности для одной выгрузки.
// На время вызова Project снимок не должен изменяться.
type Snapshot struct {
	Registrations []domain.Registration
	Participants  map[int64]domain.Participant
	Products      map[int64]domain.Product
	Seasons       map[int64]domain.Season
	Payments      map[int64][]domain.Payment // По ID регистрации
}

// Projector превращает регистрации в плоские строки выгрузки
type Projector struct {
	calc     *Calculator
	template ProgressTemplate
}

// NewProjector создает новый Projector
func NewProjector(calc *Calculator, template ProgressTemplate) *Projector {
	return &Projector{calc: calc, template: template}
}

// Project строит строки выгрузки в порядке регистраций снимка.
// Регистрации без участника, курса или сезона пропускаются и попадают в Anomalies.
func (p *Projector) Project(snap Snapshot, referenceDate time.Time) (domain.Projection, error) {
	result := domain.Projection{
		Rows: make([]domain.ExportRow, 0, len(snap.Registrations)),
	}

	for _, reg := range snap.Registrations {
		participant, product, season, linkErr := resolve(snap, reg)
		if linkErr != nil {
			result.Skipped++
			result.Anomalies = append(result.Anomalies, linkErr)
			continue
		}

		payments := RealMoney(snap.Payments[reg.ID])
		details, err := Evaluate(reg, payments)
		if err != nil {
			return domain.Projection{}, fmt.Errorf("registration %d: %w", reg.ID, err)
		}

		progress, err := p.calc.ComputeProgress(product, referenceDate)
		if err != nil {
			return domain.Projection{}, fmt.Errorf("registration %d: product %d: %w", reg.ID, product.ID, err)
		}

		result.Rows = append(result.Rows, domain.ExportRow{
			RegistrationID:  reg.ID,
			ParticipantName: participant.FullName(),
			NationalID:      participant.NationalID,
			Phone:           participant.Phone,
			SeasonName:      season.Name,
			ProductName:     product.Name,
			RequiredAmount:  reg.RequiredAmount,
			EffectiveAmount: details.Expected,
			TotalPaid:       details.Paid,
			DiscountAmount:  ApprovedDiscount(reg),
			ReceiptNumbers:  receiptNumbers(payments),
			Progress:        p.template.Format(progress),
			Status:          details.Status,
			StatusLabel:     details.Label,
		})
	}

	return result, nil
}

func resolve(snap Snapshot, reg domain.Registration) (domain.Participant, domain.Product, domain.Season, *domain.MissingLinkageError) {
	participant, ok := snap.Participants[reg.ParticipantID]
	if !ok {
		return domain.Participant{}, domain.Product{}, domain.Season{},
			&domain.MissingLinkageError{RegistrationID: reg.ID, Kind: domain.LinkParticipant, ID: reg.ParticipantID}
	}
	product, ok := snap.Products[reg.ProductID]
	if !ok {
		return domain.Participant{}, domain.Product{}, domain.Season{},
			&domain.MissingLinkageError{RegistrationID: reg.ID, Kind: domain.LinkProduct, ID: reg.ProductID}
	}
	season, ok := snap.Seasons[product.SeasonID]
	if !ok {
		return domain.Participant{}, domain.Product{}, domain.Season{},
			&domain.MissingLinkageError{RegistrationID: reg.ID, Kind: domain.LinkSeason, ID: product.SeasonID}
	}
	return participant, product, season, nil
}

func receiptNumbers(payments []domain.Payment) string {
	receipts := make([]string, 0, len(payments))
	for _, p := range payments {
		if receipt := strings.TrimSpace(p.ReceiptNumber); receipt != "" {
			receipts = append(receipts, receipt)
		}
	}
	return strings.Join(receipts, ", ")
}
