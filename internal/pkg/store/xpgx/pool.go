// Package xpgx adds squirrel aware helpers on top of a pgx connection pool.
package xpgx

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ougirez/energy-mock/internal/pkg/logger"
)

type Pool interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row

	Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error)
	Queryx(ctx context.Context, query sq.Sqlizer) (pgx.Rows, error)
	Getx(ctx context.Context, dst interface{}, query sq.Sqlizer) error

	Ping(ctx context.Context) error
	Close()
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	MaxConns int32
}

// DSN builds a postgres URL. A host starting with "/" is treated as a unix
// socket directory.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Path:   "/" + c.Database,
	}

	q := url.Values{}
	if len(c.Host) > 0 && c.Host[0] == '/' {
		q.Set("host", c.Host)
	} else {
		u.Host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	if c.MaxConns > 0 {
		q.Set("pool_max_conns", strconv.Itoa(int(c.MaxConns)))
	}
	u.RawQuery = q.Encode()

	return u.String()
}

type pool struct {
	*pgxpool.Pool
}

// Connect opens the pool and pings it, retrying with exponential backoff
// until maxWait elapses.
func Connect(ctx context.Context, cfg Config, maxWait time.Duration) (Pool, error) {
	pgxCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}

	p, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait
	err = backoff.RetryNotify(
		func() error {
			return p.Ping(ctx)
		},
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			logger.Warnf(ctx, "database ping failed, retrying in %s: %s", next, err.Error())
		},
	)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &pool{p}, nil
}

func (p *pool) Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("ToSql: %w", err)
	}
	return p.Exec(ctx, sql, args...)
}

func (p *pool) Queryx(ctx context.Context, query sq.Sqlizer) (pgx.Rows, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ToSql: %w", err)
	}
	return p.Query(ctx, sql, args...)
}

// Getx scans the single row returned by query into dst.
func (p *pool) Getx(ctx context.Context, dst interface{}, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}
	return p.QueryRow(ctx, sql, args...).Scan(dst)
}
