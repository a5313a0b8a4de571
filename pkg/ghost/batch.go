package ghost

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedResourceType = errors.New("unsupported resource type")
	ErrTransactionFailed       = errors.New("transaction failed")
)

// Batch operation types.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationGet    = "get"
)

// Batch resource names.
const (
	BatchPost = "post"
	BatchPage = "page"
	BatchTag  = "tag"
)

// UpdateDataWrapper wraps update data with the target id.
type UpdateDataWrapper[T any] struct {
	ID      string
	Request *T
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     string // "create", "update", "delete", "get"
	Resource string // "post", "page" or "tag"
	Data     interface{}
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Type     string
	Resource string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// CRUDOperationConfig holds the typed handlers of one resource. A nil handler is unsupported.
type CRUDOperationConfig struct {
	CreateFunc func(ctx context.Context, operation BatchOperation) (interface{}, error)
	UpdateFunc func(ctx context.Context, operation BatchOperation) (interface{}, error)
	DeleteFunc func(ctx context.Context, operation BatchOperation) (interface{}, error)
	GetFunc    func(ctx context.Context, operation BatchOperation) (interface{}, error)
}

// crudHandlers adapts typed resource methods to batch operations.
type crudHandlers[TCreate, TUpdate, TResource any] struct {
	create func(ctx context.Context, request *TCreate) (*TResource, error)
	update func(ctx context.Context, id string, request *TUpdate) (*TResource, error)
	remove func(ctx context.Context, id string) error
	get    func(ctx context.Context, id string) (*TResource, error)
}

func (h crudHandlers[TCreate, TUpdate, TResource]) config(resource string) CRUDOperationConfig {
	var config CRUDOperationConfig

	if h.create != nil {
		config.CreateFunc = func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if request, ok := operation.Data.(*TCreate); ok {
				return h.create(ctx, request)
			}

			return nil, fmt.Errorf("%w: %s create", ErrInvalidOperationData, resource)
		}
	}

	if h.update != nil {
		config.UpdateFunc = func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if data, ok := operation.Data.(*UpdateDataWrapper[TUpdate]); ok {
				return h.update(ctx, data.ID, data.Request)
			}

			return nil, fmt.Errorf("%w: %s update", ErrInvalidOperationData, resource)
		}
	}

	if h.remove != nil {
		config.DeleteFunc = func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				return nil, h.remove(ctx, id)
			}

			return nil, fmt.Errorf("%w: %s delete", ErrInvalidOperationData, resource)
		}
	}

	if h.get != nil {
		config.GetFunc = func(ctx context.Context, operation BatchOperation) (interface{}, error) {
			if id, ok := operation.Data.(string); ok {
				return h.get(ctx, id)
			}

			return nil, fmt.Errorf("%w: %s get", ErrInvalidOperationData, resource)
		}
	}

	return config
}

// BatchExecutor executes batch operations. It keeps going after a failed operation.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
	limiter     *rate.Limiter
	observer    RateLimitObserver
}

// NewBatchExecutor creates a new batch executor. A non-positive concurrency keeps one request in flight.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the timeout for each operation.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// SetRateLimit paces operations to perSecond. Zero removes the limit.
func (b *BatchExecutor) SetRateLimit(perSecond float64) {
	if perSecond <= 0 {
		b.limiter = nil

		return
	}

	b.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// SetObserver makes the executor honour rate-limit advice between operations.
func (b *BatchExecutor) SetObserver(observer RateLimitObserver) {
	b.observer = observer
}

// Execute runs a batch of operations and returns one result per operation, in input order.
// Operations are dispatched in input order to at most concurrency workers.
// The error is non-nil only when ctx ended before every operation ran.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))
	jobs := make(chan int)

	var waitGroup sync.WaitGroup

	for range min(b.concurrency, len(operations)) {
		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			for index := range jobs {
				operation := operations[index]
				if operation.ID == "" {
					operation.ID = uuid.NewString()
				}

				start := time.Now()

				result := b.run(ctx, operation)
				result.ID = operation.ID
				result.Type = operation.Type
				result.Resource = operation.Resource
				result.Duration = time.Since(start)
				results[index] = *result

				if operation.Callback != nil {
					operation.Callback(result)
				}
			}
		}()
	}

	for index := range operations {
		jobs <- index
	}

	close(jobs)
	waitGroup.Wait()

	return results, ctx.Err()
}

func (b *BatchExecutor) run(ctx context.Context, operation BatchOperation) *BatchResult {
	err := b.pace(ctx)
	if err != nil {
		return &BatchResult{Error: err}
	}

	opCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	return b.executeOperation(opCtx, operation)
}

func (b *BatchExecutor) pace(ctx context.Context) error {
	if b.limiter != nil {
		err := b.limiter.Wait(ctx)
		if err != nil {
			return fmt.Errorf("waiting for batch rate limit: %w", err)
		}
	}

	if b.observer == nil {
		return nil
	}

	delay := b.observer.Advise()
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// executeOperation dispatches one operation to its resource handlers.
func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	config, ok := b.operationConfig(operation.Resource)
	if !ok {
		return &BatchResult{Error: fmt.Errorf("%w: %s", ErrUnsupportedResourceType, operation.Resource)}
	}

	var handler func(ctx context.Context, operation BatchOperation) (interface{}, error)

	switch operation.Type {
	case OperationCreate:
		handler = config.CreateFunc
	case OperationUpdate:
		handler = config.UpdateFunc
	case OperationDelete:
		handler = config.DeleteFunc
	case OperationGet:
		handler = config.GetFunc
	}

	if handler == nil {
		return &BatchResult{Error: fmt.Errorf("%w: %s %s", ErrUnsupportedOperation, operation.Resource, operation.Type)}
	}

	data, err := handler(ctx, operation)

	return &BatchResult{Success: err == nil, Data: data, Error: err}
}

func (b *BatchExecutor) operationConfig(resource string) (CRUDOperationConfig, bool) {
	switch resource {
	case BatchPost:
		return postHandlers(b.client.Posts()).config(resource), true
	case BatchPage:
		return postHandlers(b.client.Pages()).config(resource), true
	case BatchTag:
		tags := b.client.Tags()

		return crudHandlers[TagCreateRequest, TagUpdateRequest, Tag]{
			create: tags.Create,
			update: tags.Update,
			remove: tags.Delete,
			get:    func(ctx context.Context, id string) (*Tag, error) { return tags.Get(ctx, id, nil) },
		}.config(resource), true
	default:
		return CRUDOperationConfig{}, false
	}
}

func postHandlers(posts PostsClient) crudHandlers[PostCreateRequest, PostUpdateRequest, Post] {
	return crudHandlers[PostCreateRequest, PostUpdateRequest, Post]{
		create: func(ctx context.Context, request *PostCreateRequest) (*Post, error) {
			return posts.Create(ctx, request, nil)
		},
		update: func(ctx context.Context, id string, request *PostUpdateRequest) (*Post, error) {
			return posts.Update(ctx, id, request, nil)
		},
		remove: posts.Delete,
		get:    func(ctx context.Context, id string) (*Post, error) { return posts.Get(ctx, id, nil) },
	}
}

// BatchSummary counts the outcome of a batch.
type BatchSummary struct {
	Succeeded int
	Failed    int
	Failures  []BatchResult
}

// Summarize counts successful and failed results.
func Summarize(results []BatchResult) BatchSummary {
	var summary BatchSummary

	for _, result := range results {
		if result.Success {
			summary.Succeeded++

			continue
		}

		summary.Failed++
		summary.Failures = append(summary.Failures, result)
	}

	return summary
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddCreatePost adds a post creation operation.
func (b *BatchBuilder) AddCreatePost(id string, request *PostCreateRequest) *BatchBuilder {
	return b.add(id, OperationCreate, BatchPost, request)
}

// AddUpdatePost adds a post update operation.
func (b *BatchBuilder) AddUpdatePost(id, postID string, request *PostUpdateRequest) *BatchBuilder {
	return b.add(id, OperationUpdate, BatchPost, &UpdateDataWrapper[PostUpdateRequest]{ID: postID, Request: request})
}

// AddDeletePost adds a post deletion operation.
func (b *BatchBuilder) AddDeletePost(id, postID string) *BatchBuilder {
	return b.add(id, OperationDelete, BatchPost, postID)
}

// AddGetPost adds a post read operation.
func (b *BatchBuilder) AddGetPost(id, postID string) *BatchBuilder {
	return b.add(id, OperationGet, BatchPost, postID)
}

// AddUpdateTag adds a tag update operation.
func (b *BatchBuilder) AddUpdateTag(id, tagID string, request *TagUpdateRequest) *BatchBuilder {
	return b.add(id, OperationUpdate, BatchTag, &UpdateDataWrapper[TagUpdateRequest]{ID: tagID, Request: request})
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

func (b *BatchBuilder) add(id, operationType, resource string, data interface{}) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:       id,
		Type:     operationType,
		Resource: resource,
		Data:     data,
	})

	return b
}

// identified is implemented by every stored resource through the embedded Resource.
type identified interface {
	ResourceID() string
}

// ResourceID returns the id of the resource.
func (r *Resource) ResourceID() string {
	return r.ID
}

// BatchTransaction runs a batch and deletes what it created when any operation fails.
// Updates and deletes cannot be undone and are reported instead.
type BatchTransaction struct {
	operations []BatchOperation
	results    []BatchResult
	executor   *BatchExecutor
	rollback   bool
}

// NewBatchTransaction creates a new batch transaction.
func NewBatchTransaction(executor *BatchExecutor) *BatchTransaction {
	return &BatchTransaction{
		executor:   executor,
		operations: make([]BatchOperation, 0),
		rollback:   true,
	}
}

// Add adds an operation to the transaction.
func (t *BatchTransaction) Add(operation BatchOperation) *BatchTransaction {
	t.operations = append(t.operations, operation)

	return t
}

// SetRollback sets whether to rollback on failure.
func (t *BatchTransaction) SetRollback(rollback bool) *BatchTransaction {
	t.rollback = rollback

	return t
}

// Execute executes the transaction and returns the forward results.
func (t *BatchTransaction) Execute(ctx context.Context) ([]BatchResult, error) {
	results, err := t.executor.Execute(ctx, t.operations)
	t.results = results

	var failedOps []string

	for _, result := range results {
		if !result.Success {
			failedOps = append(failedOps, result.ID)
		}
	}

	if len(failedOps) > 0 && t.rollback {
		t.performRollback(ctx)

		return results, fmt.Errorf("%w, %d operations failed: %v", ErrTransactionFailed, len(failedOps), failedOps)
	}

	return results, err
}

// performRollback deletes resources created by successful create operations.
func (t *BatchTransaction) performRollback(ctx context.Context) {
	var rollbackOps []BatchOperation

	for i, result := range t.results {
		if !result.Success || t.operations[i].Type != OperationCreate {
			continue
		}

		created, ok := result.Data.(identified)
		if !ok || created.ResourceID() == "" {
			continue
		}

		rollbackOps = append(rollbackOps, BatchOperation{
			ID:       "rollback_" + result.ID,
			Type:     OperationDelete,
			Resource: t.operations[i].Resource,
			Data:     created.ResourceID(),
		})
	}

	if len(rollbackOps) > 0 {
		_, _ = t.executor.Execute(ctx, rollbackOps)
	}
}
