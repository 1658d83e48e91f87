package worker

import (
	"context"
	"sync"
	"time"

	"github.com/swimschool/billing/internal/billing"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/metrics"
	"go.uber.org/zap"
)

// ProductRepository определяет методы хранилища, нужные для заполнения дат окончания
type ProductRepository interface {
	ListProductsMissingEndDate(ctx context.Context, limit int) ([]*domain.Product, error)
	SetProductEndDate(ctx context.Context, id int64, endDate time.Time) error
}

// Config параметры пула
type Config struct {
	Workers      int
	QueueSize    int
	ScanInterval time.Duration
	BatchSize    int
}

// Pool представляет пул воркеров, вычисляющих даты окончания курсов,
// которые были импортированы без них
type Pool struct {
	workers      int
	queue        chan domain.Product
	productRepo  ProductRepository
	logger       *zap.Logger
	wg           sync.WaitGroup
	scanInterval time.Duration
	batchSize    int
	cancel       context.CancelFunc

	mu       sync.Mutex
	inFlight map[int64]struct{}
	failed   map[int64]struct{} // Курсы с некорректным расписанием не ставятся в очередь повторно
}

// NewPool создает новый worker pool
func NewPool(cfg Config, productRepo ProductRepository, logger *zap.Logger) *Pool {
	return &Pool{
		workers:      cfg.Workers,
		queue:        make(chan domain.Product, cfg.QueueSize),
		productRepo:  productRepo,
		logger:       logger,
		scanInterval: cfg.ScanInterval,
		batchSize:    cfg.BatchSize,
		inFlight:     make(map[int64]struct{}),
		failed:       make(map[int64]struct{}),
	}
}

// Start запускает worker pool
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	// Запускаем воркеры
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	// Запускаем сканер курсов без даты окончания
	p.wg.Add(1)
	go p.scanner(ctx)
}

// Stop останавливает сканер и воркеры и ждет их завершения
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// worker обрабатывает курсы из очереди
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Info("worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("worker stopping", zap.Int("worker_id", id))
			return
		case product := <-p.queue:
			p.processProduct(ctx, product)
		}
	}
}

// scanner сразу и затем периодически ищет курсы без даты окончания
func (p *Pool) scanner(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.scanInterval)
	defer ticker.Stop()

	p.scanMissingEndDates(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("scanner stopping")
			return
		case <-ticker.C:
			p.scanMissingEndDates(ctx)
		}
	}
}

// scanMissingEndDates ставит в очередь курсы без даты окончания
func (p *Pool) scanMissingEndDates(ctx context.Context) {
	products, err := p.productRepo.ListProductsMissingEndDate(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("failed to get products without end date", zap.Error(err))
		return
	}

	for _, product := range products {
		if !p.acquire(product.ID) {
			continue
		}

		select {
		case p.queue <- *product:
			// Успешно добавлено в очередь
		case <-ctx.Done():
			p.release(product.ID)
			return
		default:
			// Очередь заполнена, курс попадет в следующий скан
			p.release(product.ID)
			p.logger.Warn("queue is full, skipping product", zap.Int64("product_id", product.ID))
		}
	}
}

// processProduct вычисляет и сохраняет дату окончания одного курса
func (p *Pool) processProduct(ctx context.Context, product domain.Product) {
	defer p.release(product.ID)

	p.logger.Debug("computing end date", zap.Int64("product_id", product.ID))

	end, err := billing.ProductEndDate(product)
	if err != nil {
		metrics.EndDateBackfillErrors.Inc()
		p.markFailed(product.ID)
		p.logger.Error("invalid product schedule",
			zap.Int64("product_id", product.ID),
			zap.Strings("days_of_week", product.DaysOfWeek),
			zap.Int("meetings_count", product.MeetingsCount),
			zap.Error(err),
		)
		return
	}

	if err := p.productRepo.SetProductEndDate(ctx, product.ID, end); err != nil {
		metrics.EndDateBackfillErrors.Inc()
		p.logger.Error("failed to save product end date",
			zap.Int64("product_id", product.ID),
			zap.Error(err),
		)
		return
	}

	metrics.EndDatesBackfilled.Inc()
	p.logger.Info("product end date backfilled",
		zap.Int64("product_id", product.ID),
		zap.String("end_date", end.Format(billing.DateLayout)),
	)
}

// acquire отмечает курс как обрабатываемый; false, если он уже в работе или отклонен
func (p *Pool) acquire(id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.inFlight[id]; ok {
		return false
	}
	if _, ok := p.failed[id]; ok {
		return false
	}
	p.inFlight[id] = struct{}{}
	return true
}

func (p *Pool) release(id int64) {
	p.mu.Lock()
	delete(p.inFlight, id)
	p.mu.Unlock()
}

func (p *Pool) markFailed(id int64) {
	p.mu.Lock()
	p.failed[id] = struct{}{}
	p.mu.Unlock()
}
