package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ErrUnknownFilter rejects filter columns a table does not whitelist.
var ErrUnknownFilter = errors.New("column is not filterable")

// Table describes how an entity maps onto its table.
type Table struct {
	Name string
	// Columns are the writable columns, bound by their db tag names.
	Columns []string
	// Search lists the text columns matched case-insensitively by ListFilter.Search.
	Search []string
	// Filters whitelists columns usable in ListFilter.Equals.
	Filters []string
	// Orders whitelists ORDER BY clauses; the first entry is the default.
	Orders []string
	// Ordered tables carry a sort_order column managed by Reorder.
	Ordered bool
	// NoUpdatedAt marks tables without an updated_at column.
	NoUpdatedAt bool
}

// ListFilter narrows a paged list query.
type ListFilter struct {
	Search   string
	Equals   map[string]interface{}
	OrderBy  string
	Page     int
	PageSize int
}

// Normalize clamps paging values and returns the effective page and size.
func (f ListFilter) Normalize() (page, size int) {
	page, size = f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// CRUDRepository implements create/read/update/delete for one table using sqlx
// named binding against the entity's db tags.
type CRUDRepository[T any] struct {
	db    *sqlx.DB
	table Table
}

// NewCRUDRepository builds a repository for table.
func NewCRUDRepository[T any](db *sqlx.DB, table Table) *CRUDRepository[T] {
	return &CRUDRepository[T]{db: db, table: table}
}

// List returns one page of rows matching filter together with the total count.
func (r *CRUDRepository[T]) List(ctx context.Context, filter ListFilter) ([]T, int, error) {
	where, args, err := r.where(filter)
	if err != nil {
		return nil, 0, err
	}

	page, size := filter.Normalize()
	query := fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s LIMIT %d OFFSET %d", r.table.Name, where, r.orderBy(filter.OrderBy), size, (page-1)*size)

	items := make([]T, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.table.Name, err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.table.Name, where), args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.table.Name, err)
	}
	return items, total, nil
}

// FindByID returns a single row. sql.ErrNoRows is returned unwrapped.
func (r *CRUDRepository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	var item T
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", r.table.Name)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find %s: %w", r.table.Name, err)
	}
	return &item, nil
}

// Create inserts entity and refreshes it from the stored row.
func (r *CRUDRepository[T]) Create(ctx context.Context, entity *T) error {
	placeholders := make([]string, len(r.table.Columns))
	for i, col := range r.table.Columns {
		placeholders[i] = ":" + col
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		r.table.Name, strings.Join(r.table.Columns, ", "), strings.Join(placeholders, ", "))

	bound, args, err := r.db.BindNamed(query, entity)
	if err != nil {
		return fmt.Errorf("bind %s insert: %w", r.table.Name, err)
	}
	if err := r.db.QueryRowxContext(ctx, bound, args...).StructScan(entity); err != nil {
		return fmt.Errorf("create %s: %w", r.table.Name, err)
	}
	return nil
}

// Update overwrites the writable columns of row id with entity and refreshes
// entity from the stored row.
func (r *CRUDRepository[T]) Update(ctx context.Context, id int64, entity *T) error {
	return r.update(ctx, r.db, id, entity)
}

// UpdateTx is Update inside an existing transaction.
func (r *CRUDRepository[T]) UpdateTx(ctx context.Context, tx *sqlx.Tx, id int64, entity *T) error {
	return r.update(ctx, tx, id, entity)
}

type namedQueryer interface {
	sqlx.QueryerContext
	BindNamed(query string, arg interface{}) (string, []interface{}, error)
}

func (r *CRUDRepository[T]) update(ctx context.Context, q namedQueryer, id int64, entity *T) error {
	sets := make([]string, 0, len(r.table.Columns)+1)
	for _, col := range r.table.Columns {
		sets = append(sets, fmt.Sprintf("%s = :%s", col, col))
	}
	if !r.table.NoUpdatedAt {
		sets = append(sets, "updated_at = NOW()")
	}
	query := fmt.Sprintf("UPDATE %s SET %s", r.table.Name, strings.Join(sets, ", "))

	bound, args, err := q.BindNamed(query, entity)
	if err != nil {
		return fmt.Errorf("bind %s update: %w", r.table.Name, err)
	}
	bound += fmt.Sprintf(" WHERE id = $%d RETURNING *", len(args)+1)
	args = append(args, id)

	if err := q.QueryRowxContext(ctx, bound, args...).StructScan(entity); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update %s: %w", r.table.Name, err)
	}
	return nil
}

// UpdateStatus sets the status column of row id and returns the updated row.
func (r *CRUDRepository[T]) UpdateStatus(ctx context.Context, id int64, status string) (*T, error) {
	var item T
	query := fmt.Sprintf("UPDATE %s SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING *", r.table.Name)
	if err := r.db.QueryRowxContext(ctx, query, id, status).StructScan(&item); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update %s status: %w", r.table.Name, err)
	}
	return &item, nil
}

// Delete hard-deletes row id, returning sql.ErrNoRows when nothing matched.
func (r *CRUDRepository[T]) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table.Name), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table.Name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table.Name, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Reorder assigns sort_order by position in ids within one transaction.
func (r *CRUDRepository[T]) Reorder(ctx context.Context, ids []int64) error {
	if !r.table.Ordered {
		return fmt.Errorf("%s is not an ordered table", r.table.Name)
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder %s: %w", r.table.Name, err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := fmt.Sprintf("UPDATE %s SET sort_order = $2 WHERE id = $1", r.table.Name)
	for position, id := range ids {
		if _, err := tx.ExecContext(ctx, query, id, position); err != nil {
			return fmt.Errorf("reorder %s: %w", r.table.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder %s: %w", r.table.Name, err)
	}
	return nil
}

// Exists reports whether a row has column = value, ignoring row excludeID.
func (r *CRUDRepository[T]) Exists(ctx context.Context, column string, value interface{}, excludeID int64) (bool, error) {
	if !contains(r.table.Filters, column) {
		return false, fmt.Errorf("%w: %s on %s", ErrUnknownFilter, column, r.table.Name)
	}
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND id <> $2)", r.table.Name, column)
	if err := r.db.GetContext(ctx, &exists, query, value, excludeID); err != nil {
		return false, fmt.Errorf("check %s %s: %w", r.table.Name, column, err)
	}
	return exists, nil
}

func (r *CRUDRepository[T]) where(filter ListFilter) (string, []interface{}, error) {
	var conditions []string
	var args []interface{}

	for _, col := range r.table.Filters {
		value, ok := filter.Equals[col]
		if !ok {
			continue
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	for col := range filter.Equals {
		if !contains(r.table.Filters, col) {
			return "", nil, fmt.Errorf("%w: %s on %s", ErrUnknownFilter, col, r.table.Name)
		}
	}

	if search := strings.TrimSpace(filter.Search); search != "" && len(r.table.Search) > 0 {
		args = append(args, "%"+strings.ToLower(search)+"%")
		matches := make([]string, len(r.table.Search))
		for i, col := range r.table.Search {
			matches[i] = fmt.Sprintf("LOWER(%s) LIKE $%d", col, len(args))
		}
		conditions = append(conditions, "("+strings.Join(matches, " OR ")+")")
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func (r *CRUDRepository[T]) orderBy(requested string) string {
	if requested != "" && contains(r.table.Orders, requested) {
		return requested
	}
	if len(r.table.Orders) > 0 {
		return r.table.Orders[0]
	}
	return "id DESC"
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
