package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/youcefmohamedelamine/telegram-bot/internal/domain"
	"github.com/youcefmohamedelamine/telegram-bot/internal/rank"
)

func openTestDB(t *testing.T) *Postgres {
	t.Helper()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		t.Skip("DB_URL not set (integration test)")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	p := New(db)
	if err := p.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	return p
}

func testUserID(prefix string) string {
	return prefix + "_" + time.Now().UTC().Format("20060102_150405.000000")
}

func TestApplyPayment_SecondDeliveryIsDuplicate(t *testing.T) {
	p := openTestDB(t)
	table := rank.Default()
	ctx := context.Background()

	userID := testUserID("u_dup")
	key := "charge:" + userID

	user, err := p.ApplyPayment(ctx, key, userID, 9999, table.Resolve)
	if err != nil {
		t.Fatal(err)
	}
	if user.TotalSpent != 9999 || user.OrderCount != 1 {
		t.Fatalf("aggregate = %+v", user)
	}

	if _, err = p.ApplyPayment(ctx, key, userID, 9999, table.Resolve); !errors.Is(err, domain.ErrDuplicatePayment) {
		t.Fatalf("second delivery: err = %v, want ErrDuplicatePayment", err)
	}

	user, err = p.User(ctx, userID, table.Floor())
	if err != nil {
		t.Fatal(err)
	}
	if user.TotalSpent != 9999 || user.OrderCount != 1 {
		t.Fatalf("aggregate changed after duplicate: %+v", user)
	}
}

func TestApplyPayment_ConcurrentDistinctKeysAddUp(t *testing.T) {
	p := openTestDB(t)
	table := rank.Default()
	ctx := context.Background()

	userID := testUserID("u_conc")

	const n = 10
	const amount = 1000

	var wg sync.WaitGroup
	wg.Add(n)
	errCh := make(chan error, n)

	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			key := userID + "_k" + strconv.Itoa(i)
			if _, err := p.ApplyPayment(ctx, key, userID, amount, table.Resolve); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Fatal(err)
	}

	user, err := p.User(ctx, userID, table.Floor())
	if err != nil {
		t.Fatal(err)
	}
	if user.TotalSpent != n*amount || user.OrderCount != n {
		t.Fatalf("aggregate = %+v, want totalSpent=%d orderCount=%d", user, n*amount, n)
	}
	if user.Rank != table.Resolve(n*amount) {
		t.Fatalf("rank = %q, want %q", user.Rank, table.Resolve(n*amount))
	}
}

func TestApplyPayment_ConcurrentSameKeyClaimsOnce(t *testing.T) {
	p := openTestDB(t)
	table := rank.Default()
	ctx := context.Background()

	userID := testUserID("u_race")
	key := "charge:" + userID

	const n = 8

	var wg sync.WaitGroup
	wg.Add(n)

	var mu sync.Mutex
	var applied, duplicates int

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := p.ApplyPayment(ctx, key, userID, 500, table.Resolve)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				applied++
			case errors.Is(err, domain.ErrDuplicatePayment):
				duplicates++
			default:
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if applied != 1 || duplicates != n-1 {
		t.Fatalf("applied=%d duplicates=%d, want 1 and %d", applied, duplicates, n-1)
	}
}

func TestUser_LazyCreateAtZeroState(t *testing.T) {
	p := openTestDB(t)
	table := rank.Default()

	userID := testUserID("u_lazy")

	user, err := p.User(context.Background(), userID, table.Floor())
	if err != nil {
		t.Fatal(err)
	}
	if user.TotalSpent != 0 || user.OrderCount != 0 || user.Rank != table.Floor() {
		t.Fatalf("zero state = %+v", user)
	}
}

func TestSetStats_Overwrites(t *testing.T) {
	p := openTestDB(t)
	table := rank.Default()
	ctx := context.Background()

	userID := testUserID("u_set")

	user, err := p.SetStats(ctx, userID, 20000, 3, table.Resolve(20000))
	if err != nil {
		t.Fatal(err)
	}
	if user.TotalSpent != 20000 || user.OrderCount != 3 || user.Rank != table.Resolve(20000) {
		t.Fatalf("aggregate = %+v", user)
	}
}
