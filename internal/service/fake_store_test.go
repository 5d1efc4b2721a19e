package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/catalabs/catalog_api/internal/database"
	"github.com/catalabs/catalog_api/internal/models"
)

// fakeDB is an in-memory rendition of the catalog tables, shared by every
// session a test factory mints so commands see each other's committed
// state.
type fakeDB struct {
	tables map[string][]database.Fields
	nextID int64
}

func newFakeDB() *fakeDB {
	return &fakeDB{tables: map[string][]database.Fields{
		"product":             {},
		"manufacturer":        {},
		"productmanufacturer": {},
	}}
}

func (d *fakeDB) clone() *fakeDB {
	c := &fakeDB{tables: map[string][]database.Fields{}, nextID: d.nextID}
	for name, rows := range d.tables {
		copied := make([]database.Fields, len(rows))
		for i, row := range rows {
			dup := database.Fields{}
			for k, v := range row {
				dup[k] = v
			}
			copied[i] = dup
		}
		c.tables[name] = copied
	}
	return c
}

func (d *fakeDB) insert(table string, fields database.Fields) int64 {
	row := database.Fields{}
	for k, v := range fields {
		row[k] = v
	}
	d.nextID++
	row["id"] = d.nextID
	d.tables[table] = append(d.tables[table], row)
	return d.nextID
}

func matches(row, cond database.Fields) bool {
	for k, v := range cond {
		if row[k] != v {
			return false
		}
	}
	return true
}

func (d *fakeDB) where(table string, cond database.Fields) []database.Fields {
	var out []database.Fields
	for _, row := range d.tables[table] {
		if matches(row, cond) {
			out = append(out, row)
		}
	}
	return out
}

// fakeStore satisfies repository.Store over a fakeDB. Begin snapshots the
// database and Rollback restores it, so transactional atomicity is
// observable from test assertions.
type fakeStore struct {
	db       *fakeDB
	snapshot *fakeDB
	inTx     bool

	committed  bool
	rolledBack bool
	beginErr   error
	commitErr  error
}

func (s *fakeStore) Begin(ctx context.Context) error {
	if s.beginErr != nil {
		return s.beginErr
	}
	s.snapshot = s.db.clone()
	s.inTx = true
	return nil
}

func (s *fakeStore) InTransaction() bool { return s.inTx }

func (s *fakeStore) Commit() error {
	if !s.inTx {
		return nil
	}
	s.inTx = false
	if s.commitErr != nil {
		*s.db = *s.snapshot
		return s.commitErr
	}
	s.committed = true
	s.snapshot = nil
	return nil
}

func (s *fakeStore) Rollback() error {
	if !s.inTx {
		return nil
	}
	s.inTx = false
	s.rolledBack = true
	*s.db = *s.snapshot
	s.snapshot = nil
	return nil
}

func (s *fakeStore) Insert(ctx context.Context, table string, fields database.Fields, suffix string) (int64, error) {
	return s.db.insert(table, fields), nil
}

func (s *fakeStore) Update(ctx context.Context, table string, pk, fields database.Fields) error {
	rows := s.db.where(table, pk)
	if len(rows) == 0 {
		return fmt.Errorf("update %s: %w", table, database.ErrKeyNotFound)
	}
	for _, row := range rows {
		for k, v := range fields {
			row[k] = v
		}
	}
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, table string, pk database.Fields) error {
	if len(s.db.where(table, pk)) == 0 {
		return fmt.Errorf("delete from %s: %w", table, database.ErrKeyNotFound)
	}
	var kept []database.Fields
	for _, row := range s.db.tables[table] {
		if !matches(row, pk) {
			kept = append(kept, row)
		}
	}
	s.db.tables[table] = kept
	return nil
}

func (s *fakeStore) CountAll(ctx context.Context, table string, cond database.Fields) (int64, error) {
	return int64(len(s.db.where(table, cond))), nil
}

func (s *fakeStore) Get(ctx context.Context, dest any, query string, args ...any) error {
	switch {
	case strings.Contains(query, "FROM manufacturer"):
		rows := s.db.where("manufacturer", database.Fields{"id": args[0]})
		if len(rows) == 0 {
			return sql.ErrNoRows
		}
		*dest.(*string) = rows[0]["name"].(string)
	case strings.Contains(query, "FROM productmanufacturer"):
		rows := s.db.where("productmanufacturer", database.Fields{"product_id": args[0], "active": true})
		if len(rows) == 0 {
			return sql.ErrNoRows
		}
		*dest.(*int64) = rows[0]["manufacturer_id"].(int64)
	default:
		return fmt.Errorf("fake store: unrecognized get query %q", query)
	}
	return nil
}

func (s *fakeStore) Select(ctx context.Context, dest any, query string, args ...any) error {
	switch {
	case strings.Contains(query, "INNER JOIN productmanufacturer"):
		out := dest.(*[]models.ProductDetailRow)
		for _, p := range s.db.where("product", database.Fields{"id": args[0]}) {
			for _, link := range s.db.where("productmanufacturer", database.Fields{"product_id": args[0], "active": true}) {
				for _, m := range s.db.where("manufacturer", database.Fields{"id": link["manufacturer_id"]}) {
					*out = append(*out, models.ProductDetailRow{
						ID:               p["id"].(int64),
						Name:             p["name"].(string),
						Description:      p["description"].(string),
						Barcode:          p["barcode"].(string),
						UnitPrice:        p["unitprice"].(float64),
						Active:           p["active"].(bool),
						ManufacturerID:   m["id"].(int64),
						ManufacturerName: m["name"].(string),
					})
				}
			}
		}
	case strings.HasPrefix(query, "SELECT id, name FROM product"):
		out := dest.(*[]models.ListRow)
		for _, p := range s.db.where("product", database.Fields{"active": true}) {
			*out = append(*out, models.ListRow{ID: p["id"].(int64), Name: p["name"].(string)})
		}
		sortListRows(out, query)
	case strings.Contains(query, "FROM manufacturer WHERE id"):
		out := dest.(*[]models.Manufacturer)
		for _, m := range s.db.where("manufacturer", database.Fields{"id": args[0]}) {
			*out = append(*out, models.Manufacturer{ID: m["id"].(int64), Name: m["name"].(string)})
		}
	case strings.HasPrefix(query, "SELECT id, name FROM manufacturer"):
		out := dest.(*[]models.Manufacturer)
		for _, m := range s.db.tables["manufacturer"] {
			*out = append(*out, models.Manufacturer{ID: m["id"].(int64), Name: m["name"].(string)})
		}
		sortManufacturers(out, query)
	default:
		return fmt.Errorf("fake store: unrecognized select query %q", query)
	}
	return nil
}

func sortListRows(rows *[]models.ListRow, query string) {
	if strings.Contains(query, "ORDER BY name") {
		sort.Slice(*rows, func(i, j int) bool { return (*rows)[i].Name < (*rows)[j].Name })
	} else {
		sort.Slice(*rows, func(i, j int) bool { return (*rows)[i].ID < (*rows)[j].ID })
	}
}

func sortManufacturers(rows *[]models.Manufacturer, query string) {
	if strings.Contains(query, "ORDER BY name") {
		sort.Slice(*rows, func(i, j int) bool { return (*rows)[i].Name < (*rows)[j].Name })
	} else {
		sort.Slice(*rows, func(i, j int) bool { return (*rows)[i].ID < (*rows)[j].ID })
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// seeding helpers

func seedManufacturer(db *fakeDB, name string) int64 {
	return db.insert("manufacturer", database.Fields{"name": name})
}

func seedProduct(db *fakeDB, name string, active bool) int64 {
	return db.insert("product", database.Fields{
		"name":        name,
		"description": "seeded description",
		"barcode":     "790000001",
		"unitprice":   10.00,
		"active":      active,
	})
}

func seedLink(db *fakeDB, productID, manufacturerID int64, active bool) int64 {
	return db.insert("productmanufacturer", database.Fields{
		"product_id":      productID,
		"manufacturer_id": manufacturerID,
		"active":          active,
	})
}
