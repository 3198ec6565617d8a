package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rushteam/seatmatch/core"
)

// mysqlDuplicateEntry 是 MySQL 唯一键冲突的错误码。
const mysqlDuplicateEntry = 1062

// Schema 是 MySQLRegistry 使用的表结构。
const Schema = `CREATE TABLE IF NOT EXISTS passengers (
	user_id    BIGINT AUTO_INCREMENT PRIMARY KEY,
	name       VARCHAR(128) NOT NULL,
	pnr        CHAR(10) NOT NULL UNIQUE,
	seat_type  VARCHAR(32) NULL,
	coach      INT NULL,
	group_size INT NOT NULL DEFAULT 1
)`

// MySQLOptions 是 MySQL 连接参数。
type MySQLOptions struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	EnsureSchema    bool
}

// MySQLRegistry 是基于 MySQL 的乘客登记表。
type MySQLRegistry struct {
	db *sql.DB
}

// OpenMySQL 打开连接池并 Ping 一次；EnsureSchema 为 true 时建表。
func OpenMySQL(ctx context.Context, opts MySQLOptions) (*MySQLRegistry, error) {
	db, err := sql.Open("mysql", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := opts.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = maxOpen
	}
	lifetime := opts.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := NewMySQLRegistry(db)
	if opts.EnsureSchema {
		if err := r.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return r, nil
}

// NewMySQLRegistry 使用已有连接池（例如测试中的 sqlmock）。
func NewMySQLRegistry(db *sql.DB) *MySQLRegistry {
	return &MySQLRegistry{db: db}
}

var _ core.PassengerRegistry = (*MySQLRegistry)(nil)

func (r *MySQLRegistry) Name() string { return "mysql" }

// EnsureSchema 创建 passengers 表（已存在时无操作）。
func (r *MySQLRegistry) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *MySQLRegistry) Register(ctx context.Context, p core.Passenger) (core.Passenger, error) {
	if err := p.Validate(); err != nil {
		return core.Passenger{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO passengers (name, pnr, seat_type, coach, group_size) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.PNR, nullString(p.SeatType), nullInt(p.Coach), p.EffectiveGroupSize(),
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return core.Passenger{}, conflictPNR(p.PNR)
		}
		return core.Passenger{}, fmt.Errorf("insert passenger: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Passenger{}, fmt.Errorf("insert passenger: %w", err)
	}
	p.UserID = id
	return p, nil
}

const selectPassenger = `SELECT user_id, name, pnr, seat_type, coach, group_size FROM passengers`

func (r *MySQLRegistry) Get(ctx context.Context, userID int64) (core.Passenger, error) {
	row := r.db.QueryRowContext(ctx, selectPassenger+` WHERE user_id = ?`, userID)
	p, err := scanPassenger(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Passenger{}, notFound(userID)
	}
	return p, err
}

// Snapshot 返回按 user_id 升序的全部乘客。
func (r *MySQLRegistry) Snapshot(ctx context.Context) ([]core.Passenger, error) {
	rows, err := r.db.QueryContext(ctx, selectPassenger+` ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query passengers: %w", err)
	}
	defer rows.Close()

	var out []core.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passengers: %w", err)
	}
	return out, nil
}

func (r *MySQLRegistry) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPassenger(s scanner) (core.Passenger, error) {
	var (
		p        core.Passenger
		seatType sql.NullString
		coach    sql.NullInt64
	)
	if err := s.Scan(&p.UserID, &p.Name, &p.PNR, &seatType, &coach, &p.GroupSize); err != nil {
		return core.Passenger{}, err
	}
	p.SeatType = seatType.String
	if coach.Valid {
		p.Coach = core.IntPtr(int(coach.Int64))
	}
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
