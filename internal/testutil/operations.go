package testutil

import (
	"fmt"
	"sync"

	ierr "github.com/flexprice/stripe-migrate/internal/errors"
)

// Operation names a repository call that can be counted or made to fail.
type Operation string

const (
	OpProductGet         Operation = "product.get"
	OpProductList        Operation = "product.list"
	OpProductCreate      Operation = "product.create"
	OpProductUpdate      Operation = "product.update"
	OpPriceGet           Operation = "price.get"
	OpPriceList          Operation = "price.list"
	OpPriceCreate        Operation = "price.create"
	OpPriceUpdate        Operation = "price.update"
	OpSubscriptionGet    Operation = "subscription.get"
	OpSubscriptionList   Operation = "subscription.list"
	OpSubscriptionCreate Operation = "subscription.create"
	OpSubscriptionUpdate Operation = "subscription.update"
	OpCustomerGet        Operation = "customer.get"
	OpCustomerList       Operation = "customer.list"
)

// operationLog counts calls per operation and serves injected failures.
type operationLog struct {
	mu        sync.Mutex
	calls     map[Operation]int
	failures  map[string]string
	sequence  int
	namespace string
}

// newOperationLog issues ids under namespace, so two accounts never hand out
// the same id.
func newOperationLog(namespace string) *operationLog {
	return &operationLog{
		calls:     make(map[Operation]int),
		failures:  make(map[string]string),
		namespace: namespace,
	}
}

func failureKey(op Operation, id string) string {
	return string(op) + ":" + id
}

// failOn makes op fail for id. An empty id fails every call of op.
func (l *operationLog) failOn(op Operation, id, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[failureKey(op, id)] = message
}

func (l *operationLog) clearFailures() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = make(map[string]string)
}

// call records op and returns the injected failure for it, if any.
func (l *operationLog) call(op Operation, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	message, ok := l.failures[failureKey(op, id)]
	if !ok {
		message, ok = l.failures[failureKey(op, "")]
	}
	if ok {
		return ierr.NewError(message).
			WithHint("The billing provider rejected the request").
			WithReportableDetails(map[string]interface{}{
				"operation": string(op),
				"id":        id,
			}).
			Mark(ierr.ErrRemoteAPI)
	}

	l.calls[op]++
	return nil
}

func (l *operationLog) count(op Operation) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[op]
}

func (l *operationLog) nextID(prefix string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sequence++
	return fmt.Sprintf("%s_%s_%d", prefix, l.namespace, l.sequence)
}
