package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrWriteInReadOnlyTx は読み取り専用の作業単位の中で書き込み用の作業単位を開始しようとした場合に返却されます。
var ErrWriteInReadOnlyTx = errors.New("postgres: read-write unit of work nested in read-only transaction")

type unitOfWorkKey struct{}

// unitOfWork はコンテキストに載せる進行中のトランザクションです。
type unitOfWork struct {
	tx       pgx.Tx
	readOnly bool
}

var (
	// レポートは社員と割り当てを同一スナップショットから読む
	snapshotTxOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	mutationTxOptions = pgx.TxOptions{AccessMode: pgx.ReadWrite}
)

// txStarter は pgxpool.Pool と pgxmock のプールを共通に扱うためのインターフェースです。
type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager は割り当て・社員・プロジェクトの各サービスが使う作業単位を pgx で実装します。
// 一括作成や週の分割のように複数の書き込みからなる操作は、1 つのトランザクションで全件コミットか全件ロールバックになります。
type TransactionManager struct {
	pool txStarter
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(pool txStarter) *TransactionManager {
	if pool == nil {
		return nil
	}
	return &TransactionManager{pool: pool}
}

// WithinReadOnly は REPEATABLE READ の読み取り専用トランザクションで fn を実行します。
// fn 内の複数のクエリは同一のスナップショットを参照します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.run(ctx, snapshotTxOptions, fn)
}

// WithinReadWrite は読み書きトランザクションで fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.run(ctx, mutationTxOptions, fn)
}

// run は作業単位を開始して fn を実行します。
// 既にトランザクションが進行中であればそれを再利用し、コミットは最も外側の呼び出しが行います。
func (m *TransactionManager) run(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: transaction function is required")
	}

	readOnly := opts.AccessMode == pgx.ReadOnly
	if current, ok := unitOfWorkFrom(ctx); ok {
		if current.readOnly && !readOnly {
			return ErrWriteInReadOnlyTx
		}
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, unitOfWorkKey{}, &unitOfWork{tx: tx, readOnly: readOnly})); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(fmt.Errorf("postgres: commit: %w", err), fmt.Errorf("postgres: rollback after commit failure: %w", rbErr))
		}
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func unitOfWorkFrom(ctx context.Context) (*unitOfWork, bool) {
	if ctx == nil {
		return nil, false
	}
	uow, ok := ctx.Value(unitOfWorkKey{}).(*unitOfWork)
	return uow, ok
}

// QueryerFromContext は進行中の作業単位があればそのトランザクションを、なければ fallback を返します。
// リポジトリは常にこれを経由してクエリを発行するため、サービス側のトランザクション境界にそのまま参加します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if uow, ok := unitOfWorkFrom(ctx); ok {
		return uow.tx
	}
	return fallback
}

// Queryer は pgx.Tx および pgxpool.Pool と互換性のあるクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
