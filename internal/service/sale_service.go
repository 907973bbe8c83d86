package service

import (
	"context"
	"encoding/json"
	"errors"

	"salesapi/internal/domain"
	"salesapi/internal/dto"
	"salesapi/internal/metrics"
	"salesapi/internal/model"
	"salesapi/internal/repository"
	"salesapi/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrSaleNotFound     = errors.New("sale not found")
	ErrSaleNumberExists = errors.New("sale number already exists")
)

type SaleService interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	AddItem(ctx context.Context, saleID uuid.UUID, req dto.AddItemRequest) (*dto.SaleResponse, error)
	UpdateItemQuantity(ctx context.Context, saleID, productID uuid.UUID, quantity int) (*dto.SaleResponse, error)
	RemoveItem(ctx context.Context, saleID, productID uuid.UUID, quantity int) (*dto.SaleResponse, error)
	CancelItems(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
	CancelSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
	DeleteSale(ctx context.Context, saleID uuid.UUID) error
}

type saleService struct {
	repo       repository.SaleRepository
	dispatcher *worker.Dispatcher
}

func NewSaleService(repo repository.SaleRepository, dispatcher *worker.Dispatcher) SaleService {
	return &saleService{repo: repo, dispatcher: dispatcher}
}

// ── CreateSale ────────────────────────────────────────────────────────────────
// 1. Reject duplicate sale numbers (pre-flight read; the unique index backs it)
// 2. Build the aggregate through its factory — any rule violation aborts here
// 3. Persist
// 4. (async) publish the recorded events, best-effort

func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, domainErr(domain.CodeInvalidCustomerID, "customer ID must be a valid UUID")
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, domainErr(domain.CodeInvalidBranchID, "branch ID must be a valid UUID")
	}

	if _, err := s.repo.FindByNumber(ctx, req.Number); err == nil {
		return nil, ErrSaleNumberExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	items := make([]domain.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, domainErr(domain.CodeInvalidProductID, "product ID must be a valid UUID")
		}
		items = append(items, domain.ItemInput{
			ProductID:   pid,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
		})
	}

	sale, err := domain.NewSale(uuid.New(), req.Number, customerID, req.CustomerName, branchID, req.BranchName, items)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, model.SaleFromDomain(sale)); err != nil {
		return nil, err
	}

	metrics.SalesCreated.Inc()
	s.publishEvents(ctx, sale, req.CustomerEmail)
	return saleToResponse(sale), nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return saleToResponse(rec.ToDomain()), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 {
		filter.Size = 20
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(sales[i].ToDomain()))
	}
	return &dto.SaleListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
	}, nil
}

// mutate loads the aggregate, applies fn, and persists only when fn succeeds.
// On a domain error the in-memory aggregate may hold an invalid quantity (the
// ceiling check runs after the write), so the tainted copy is discarded and
// nothing reaches the store.
func (s *saleService) mutate(ctx context.Context, saleID uuid.UUID, fn func(*domain.Sale) error) (*dto.SaleResponse, error) {
	rec, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	sale := rec.ToDomain()

	if err := fn(sale); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, model.SaleFromDomain(sale)); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, sale, nil)
	return saleToResponse(sale), nil
}

func (s *saleService) AddItem(ctx context.Context, saleID uuid.UUID, req dto.AddItemRequest) (*dto.SaleResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, domainErr(domain.CodeInvalidProductID, "product ID must be a valid UUID")
	}
	return s.mutate(ctx, saleID, func(sale *domain.Sale) error {
		return sale.AddItem(productID, req.ProductName, req.UnitPrice, req.Quantity)
	})
}

func (s *saleService) UpdateItemQuantity(ctx context.Context, saleID, productID uuid.UUID, quantity int) (*dto.SaleResponse, error) {
	return s.mutate(ctx, saleID, func(sale *domain.Sale) error {
		return sale.UpdateItemQuantity(productID, quantity)
	})
}

func (s *saleService) RemoveItem(ctx context.Context, saleID, productID uuid.UUID, quantity int) (*dto.SaleResponse, error) {
	return s.mutate(ctx, saleID, func(sale *domain.Sale) error {
		return sale.RemoveItem(productID, quantity)
	})
}

func (s *saleService) CancelItems(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	resp, err := s.mutate(ctx, saleID, func(sale *domain.Sale) error {
		return sale.CancelItems()
	})
	if err == nil {
		metrics.ItemsCancelled.Inc()
	}
	return resp, err
}

func (s *saleService) CancelSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	resp, err := s.mutate(ctx, saleID, func(sale *domain.Sale) error {
		return sale.CancelSale()
	})
	if err == nil {
		metrics.SalesCancelled.Inc()
	}
	return resp, err
}

func (s *saleService) DeleteSale(ctx context.Context, saleID uuid.UUID) error {
	_, err := s.mutate(ctx, saleID, func(sale *domain.Sale) error {
		return sale.SoftDelete()
	})
	return err
}

// publishEvents drains the aggregate's recorded facts into the async queue.
// Best-effort: a full queue or missing dispatcher never fails the request.
func (s *saleService) publishEvents(ctx context.Context, sale *domain.Sale, customerEmail *string) {
	events := sale.PullEvents()
	if s.dispatcher == nil {
		return
	}
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Error().Err(err).Str("event", ev.EventName()).Msg("marshal event")
			continue
		}
		job := worker.EventJob{
			SaleID:    sale.ID(),
			EventName: ev.EventName(),
			Payload:   payload,
		}
		if ev.EventName() == "sale.created" && customerEmail != nil && *customerEmail != "" {
			job.CustomerEmail = customerEmail
		}
		if err := s.dispatcher.EnqueueEvent(ctx, job); err != nil {
			log.Error().Err(err).Str("event", ev.EventName()).Str("sale_id", sale.ID().String()).
				Msg("enqueue event")
		}
	}
}

func domainErr(code, msg string) error { return domain.NewError(code, msg) }

func saleToResponse(sale *domain.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items()))
	for _, it := range sale.Items() {
		items = append(items, dto.SaleItemResponse{
			ProductID:      it.ProductID().String(),
			ProductName:    it.ProductName(),
			Quantity:       it.Quantity(),
			UnitPrice:      it.UnitPrice(),
			DiscountAmount: it.DiscountAmount(),
			LineTotal:      it.LineTotal(),
			Cancelled:      it.IsCancelled(),
		})
	}
	var deletedAt *string
	if d := sale.DeletedAt(); d != nil {
		v := d.Format("2006-01-02T15:04:05Z")
		deletedAt = &v
	}
	return &dto.SaleResponse{
		ID:            sale.ID().String(),
		Number:        sale.Number(),
		CustomerID:    sale.CustomerID().String(),
		CustomerName:  sale.CustomerName(),
		BranchID:      sale.BranchID().String(),
		BranchName:    sale.BranchName(),
		Items:         items,
		TotalAmount:   sale.TotalAmount(),
		TotalDiscount: sale.TotalDiscount(),
		TotalPayable:  sale.TotalPayable(),
		Cancelled:     sale.IsCancelled(),
		CreatedAt:     sale.CreatedAt().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:     sale.UpdatedAt().Format("2006-01-02T15:04:05Z"),
		DeletedAt:     deletedAt,
	}
}
