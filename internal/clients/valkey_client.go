package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

type ValkeyClient struct {
	Client valkey.Client
	mu     sync.Mutex
}

// Seen-set keys expire after a day so reruns within a collection window
// dedupe against each other without growing forever.
const (
	VALKEY_SEEN_TTL_SECONDS = 86400
	VALKEY_RETRIES          = 3
	VALKEY_RETRY_DELAY      = 250 * time.Millisecond
)

func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		client, err := newValkeyClient()
		if err != nil {
			panic(err)
		}
		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance
}

func newValkeyClient() (valkey.Client, error) {
	valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
	valkeyPassword := os.Getenv("VALKEY_PASSWORD")
	useTLS := os.Getenv("VALKEY_TLS") == "true"

	opts := valkey.ClientOption{
		InitAddress: []string{
			valkeyAddr,
		},
		Password:         valkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	c := client.Do(ctx, client.B().Ping().Build())
	if c.Error() != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", c.Error())
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	return client, nil
}

// recreateClient swaps in a fresh connection after a connection-level
// failure. If the reconnect fails the closed client stays in place and
// later retries keep trying.
func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Reconnecting to Valkey...")
	vc.Client.Close()

	client, err := newValkeyClient()
	if err != nil {
		slog.Error("[ValkeyClient] Reconnect failed",
			slog.String("error", err.Error()))
		return
	}
	vc.Client = client
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

func GetValkeyClient() *ValkeyClient {
	if valkeyInstance == nil {
		panic("[ValkeyClient] Valkey client is not initialized, call InitValkey first")
	}
	return valkeyInstance
}

// MarkSeen adds id to the source's seen set and refreshes its TTL.
func (vc *ValkeyClient) MarkSeen(ctx context.Context, source string, id string) error {
	key := seenKey(source)
	commands := []valkey.Completed{
		vc.Client.B().Sadd().Key(key).Member(id).Build(),
		vc.Client.B().Expire().Key(key).Seconds(VALKEY_SEEN_TTL_SECONDS).Build(),
	}
	return firstError(vc.doMultiWithRetry(ctx, commands))
}

// IsSeen reports whether id is in the source's seen set. Errors read as
// unseen: a flaky Valkey should never drop records, only risk a dupe.
func (vc *ValkeyClient) IsSeen(ctx context.Context, source string, id string) bool {
	res := vc.doWithRetry(ctx, vc.Client.B().Sismember().Key(seenKey(source)).Member(id).Build())

	ok, err := res.AsBool()
	if err != nil {
		return false
	}
	return ok
}

func seenKey(source string) string {
	return "civicsift:seen:" + source
}

func (vc *ValkeyClient) doWithRetry(ctx context.Context, cmd valkey.Completed) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for attempt := 1; attempt <= VALKEY_RETRIES; attempt++ {
		result = vc.Client.Do(ctx, cmd)
		err := result.Error()
		if err == nil {
			return result
		}

		slog.Warn("[ValkeyClient] Command failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}
		time.Sleep(VALKEY_RETRY_DELAY)
	}
	return result
}

func (vc *ValkeyClient) doMultiWithRetry(ctx context.Context, commands []valkey.Completed) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult
	for attempt := 1; attempt <= VALKEY_RETRIES; attempt++ {
		results = vc.Client.DoMulti(ctx, commands...)
		err := firstError(results)
		if err == nil {
			return results
		}

		slog.Warn("[ValkeyClient] Pipeline failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}
		time.Sleep(VALKEY_RETRY_DELAY)
	}
	return results
}

func firstError(results []valkey.ValkeyResult) error {
	for _, r := range results {
		if err := r.Error(); err != nil {
			return err
		}
	}
	return nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
