package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/swimschool/billing/internal/cache"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/metrics"
	"go.uber.org/zap"
)

func newPaymentService(t *testing.T) (*PaymentService, *registrationRepoMock, *paymentRepoMock, *memoryCache) {
	t.Helper()
	registrations := &registrationRepoMock{}
	payments := &paymentRepoMock{}
	c := newMemoryCache()
	svc := NewPaymentService(registrations, payments, c, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, time.January, 9, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		registrations.AssertExpectations(t)
		payments.AssertExpectations(t)
	})
	return svc, registrations, payments, c
}

func TestPaymentService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	reg := &domain.Registration{ID: 10, ProductID: 15}

	t.Run("Success", func(t *testing.T) {
		svc, registrations, payments, c := newPaymentService(t)
		before := testutil.ToFloat64(metrics.PaymentsRecorded)

		registrations.On("GetRegistration", mock.Anything, int64(10)).Return(reg, nil).Once()
		payments.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.Kind == domain.PaymentKindPayment &&
				p.ReceiptNumber == "R-1" &&
				p.PaymentDate.Equal(day(2024, time.January, 9))
		})).Return(nil).Once()

		payment, err := svc.RecordPayment(ctx, PaymentInput{
			RegistrationID: 10,
			Amount:         decimal.RequireFromString("200"),
			ReceiptNumber:  " R-1 ",
		})
		require.NoError(t, err)
		assert.Equal(t, "200", payment.Amount.String())
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.PaymentsRecorded))
		assert.Equal(t, []string{cache.ProductSummaryVersionKey(15)}, c.incremented)
	})

	t.Run("Non-positive amount", func(t *testing.T) {
		svc, _, _, _ := newPaymentService(t)

		for _, amount := range []string{"0", "-50"} {
			var amountErr *domain.InvalidAmountError
			_, err := svc.RecordPayment(ctx, PaymentInput{RegistrationID: 10, Amount: decimal.RequireFromString(amount)})
			require.ErrorAs(t, err, &amountErr)
			assert.Equal(t, "amount", amountErr.Field)
		}
	})

	t.Run("Registration not found", func(t *testing.T) {
		svc, registrations, _, _ := newPaymentService(t)
		registrations.On("GetRegistration", mock.Anything, int64(99)).Return(nil, domain.ErrRegistrationNotFound).Once()

		_, err := svc.RecordPayment(ctx, PaymentInput{RegistrationID: 99, Amount: decimal.RequireFromString("200")})
		assert.ErrorIs(t, err, domain.ErrRegistrationNotFound)
	})

	t.Run("Bad payment date", func(t *testing.T) {
		svc, _, _, _ := newPaymentService(t)

		var schedErr *domain.ScheduleError
		_, err := svc.RecordPayment(ctx, PaymentInput{RegistrationID: 10, Amount: decimal.RequireFromString("1"), PaymentDate: "09.01.2024"})
		assert.ErrorAs(t, err, &schedErr)
	})
}

func TestPaymentService_ListPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, registrations, payments, _ := newPaymentService(t)
		registrations.On("GetRegistration", mock.Anything, int64(10)).Return(&domain.Registration{ID: 10}, nil).Once()
		payments.On("ListPaymentsByRegistration", mock.Anything, int64(10)).Return([]domain.Payment{{ID: 1}, {ID: 2}}, nil).Once()

		list, err := svc.ListPayments(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("Registration not found", func(t *testing.T) {
		svc, registrations, _, _ := newPaymentService(t)
		registrations.On("GetRegistration", mock.Anything, int64(99)).Return(nil, domain.ErrRegistrationNotFound).Once()

		_, err := svc.ListPayments(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrRegistrationNotFound)
	})
}
