package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/breadcrumbs/internal/breadcrumbs"
	"storefront/breadcrumbs/internal/client"
	"storefront/breadcrumbs/internal/domain"
	"storefront/breadcrumbs/internal/domain/task"
	"storefront/breadcrumbs/internal/queue"
	"storefront/breadcrumbs/internal/repository"
	"storefront/breadcrumbs/internal/state"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repository  repository.ProductRepository
	client      client.CatalogClient
	queue       queue.Queue
	cache       state.ProductCache
	resolver    breadcrumbs.Resolver
	minIdleTime time.Duration
	maxRetries  int
}

func NewService(
	repository repository.ProductRepository,
	client client.CatalogClient,
	queue queue.Queue,
	cache state.ProductCache,
	resolver breadcrumbs.Resolver,
	minIdleTime int,
	maxRetries int,
) *Service {
	return &Service{
		repository:  repository,
		client:      client,
		queue:       queue,
		cache:       cache,
		resolver:    resolver,
		minIdleTime: time.Duration(minIdleTime) * time.Second,
		maxRetries:  maxRetries,
	}
}

// ProductBreadcrumbs returns the breadcrumb group for the product with the
// given SKU. The disclosure of the returned group is collapsed.
func (s *Service) ProductBreadcrumbs(ctx context.Context, sku string) (breadcrumbs.Group, error) {
	product, err := s.Product(ctx, sku)
	if err != nil {
		return breadcrumbs.Group{}, err
	}
	return breadcrumbs.NewGroup(product.Categories, s.resolver), nil
}

// BuildTrail builds a single trail from caller-supplied breadcrumbs.
func (s *Service) BuildTrail(entries []domain.CategoryBreadcrumb, currentCategory, currentPath string) breadcrumbs.Trail {
	return breadcrumbs.NewTrail(entries, currentCategory, currentPath, s.resolver)
}

// Product looks the SKU up in the cache, then the repository, then the
// upstream catalog. Results from slower tiers are written back to the
// faster ones.
func (s *Service) Product(ctx context.Context, sku string) (*domain.Product, error) {
	if sku == "" {
		return nil, domain.ErrEmptySKU
	}

	product, err := s.cache.Get(ctx, sku)
	if err != nil {
		log.Warnf("⚠️ Cache lookup for %s failed: %v", sku, err)
	}
	if product != nil {
		return product, nil
	}

	product, err = s.repository.GetProduct(ctx, sku)
	switch {
	case err == nil:
		s.cacheProduct(ctx, product)
		return product, nil
	case !errors.Is(err, domain.ErrProductNotFound):
		log.Warnf("⚠️ Repository lookup for %s failed, asking catalog: %v", sku, err)
	}

	product, err = s.client.GetProduct(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", sku, err)
	}

	if err := s.repository.SaveProduct(ctx, product); err != nil {
		log.Errorf("❌ Failed to save product %s: %v", sku, err)
	}
	s.cacheProduct(ctx, product)

	return product, nil
}

// RefreshProduct schedules a background re-fetch of the product.
func (s *Service) RefreshProduct(ctx context.Context, sku string) (string, error) {
	if sku == "" {
		return "", domain.ErrEmptySKU
	}

	msgID, err := s.queue.AddTask(ctx, &task.ProductRefreshTask{SKU: sku})
	if err != nil {
		return "", fmt.Errorf("failed to schedule refresh for %s: %w", sku, err)
	}
	return msgID, nil
}

func (s *Service) cacheProduct(ctx context.Context, product *domain.Product) {
	if err := s.cache.Set(ctx, product); err != nil {
		log.Warnf("⚠️ Failed to cache product %s: %v", product.SKU, err)
	}
}

func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamName(task.TypeProductRefresh), "main")
	s.runWorkersForStream(ctx, &wg, max(1, numWorkers/2), queue.StreamName(task.TypeRefreshRetry), "retry")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	if s.minIdleTime > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(s.minIdleTime)
			defer ticker.Stop()
			consumer := fmt.Sprintf("autoclaimer-%s-%s", workerType, uuid.NewString())
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					claimed, err := s.queue.AutoClaim(ctx, consumer, streamName, s.minIdleTime)
					if err != nil {
						log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
						continue
					}
					if len(claimed) > 0 {
						log.Infof("🔄 Auto-claimed %d messages from %s stream", len(claimed), workerType)
					}
					for _, msg := range claimed {
						if err := s.processMessage(ctx, streamName, &msg); err != nil {
							log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}()
	}

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
				}

				msg, err := s.queue.GetTask(ctx, consumer, streamName)
				if err != nil {
					if ctx.Err() == nil {
						log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
					}
					continue
				}
				if msg == nil {
					continue
				}
				if err := s.processMessage(ctx, streamName, msg); err != nil {
					log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
				}
			}
		}(i + 1)
	}
}

func (s *Service) processMessage(ctx context.Context, streamName string, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	switch taskType {
	case task.TypeProductRefresh:
		refreshTask, err := task.UnmarshalTask[*task.ProductRefreshTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal refresh task data: %w", err)
		}
		s.handleRefresh(ctx, refreshTask.SKU, 0)

	case task.TypeRefreshRetry:
		retryTask, err := task.UnmarshalTask[*task.RefreshRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal retry task data: %w", err)
		}
		s.handleRefresh(ctx, retryTask.SKU, retryTask.RetryCount+1)

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, streamName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

// handleRefresh runs one refresh attempt and schedules a retry on failure.
// attempt is 0 for the first try.
func (s *Service) handleRefresh(ctx context.Context, sku string, attempt int) {
	err := s.refresh(ctx, sku)
	if err == nil {
		if attempt > 0 {
			log.Infof("✅ Refreshed %s after %d retries", sku, attempt)
		}
		return
	}

	if errors.Is(err, domain.ErrProductNotFound) {
		log.Warnf("🗑️ Product %s no longer in catalog, evicting", sku)
		// Repository first, so a concurrent lookup cannot refill the cache from it
		if err := s.repository.DeleteProduct(ctx, sku); err != nil {
			log.Warnf("⚠️ %v", err)
		}
		if err := s.cache.Delete(ctx, sku); err != nil {
			log.Warnf("⚠️ %v", err)
		}
		return
	}

	if attempt >= s.maxRetries {
		log.Errorf("❌ Giving up on refresh of %s after %d retries: %v", sku, attempt, err)
		return
	}

	retryTask := &task.RefreshRetryTask{
		SKU:        sku,
		RetryCount: attempt,
		Error:      err.Error(),
	}
	if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
		log.Errorf("❌ Failed to add retry task for %s: %v", sku, addErr)
		return
	}
	log.Warnf("🔄 Refresh of %s failed (attempt %d), queued for retry: %v", sku, attempt+1, err)
}

func (s *Service) refresh(ctx context.Context, sku string) error {
	product, err := s.client.GetProduct(ctx, sku)
	if err != nil {
		return err
	}

	if err := s.repository.SaveProduct(ctx, product); err != nil {
		return err
	}

	s.cacheProduct(ctx, product)
	log.Debugf("Refreshed product %s with %d categories", sku, len(product.Categories))
	return nil
}
