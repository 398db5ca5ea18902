package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgPool is a pgExecutor that can also open transactions.
type pgPool interface {
	pgExecutor
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users     *UserRepository
	Profiles  *ProfileRepository
	Sales     *SaleRepository
	Favorites *FavoriteRepository
	Posts     *PostRepository
	Offers    *OfferRepository
	Ratings   *SiteRatingRepository
	Contacts  *ContactRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(pool),
		Profiles:  NewProfileRepository(pool),
		Sales:     NewSaleRepository(pool),
		Favorites: NewFavoriteRepository(pool),
		Posts:     NewPostRepository(pool),
		Offers:    NewOfferRepository(pool),
		Ratings:   NewSiteRatingRepository(pool),
		Contacts:  NewContactRepository(pool),
	}
}

var (
	_ pgPool     = (*pgxpool.Pool)(nil)
	_ pgExecutor = (*pgxpool.Pool)(nil)
)
