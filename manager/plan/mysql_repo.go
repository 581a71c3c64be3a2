// Copyright 2020, Square, Inc.

package plan

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/go-sql-driver/mysql"

	serr "github.com/robotology/yarpmanager/errors"
	"github.com/robotology/yarpmanager/proto"
)

// mysqlRepo keeps plans in the plans table (see resources/plan_schema.sql).
// The whole plan is stored as JSON; the other columns are for filtering.
type mysqlRepo struct {
	db *sql.DB
}

// NewMySQLRepo returns a repo that stores plans in db.
func NewMySQLRepo(db *sql.DB) *mysqlRepo {
	return &mysqlRepo{
		db: db,
	}
}

func (r *mysqlRepo) Add(p proto.Plan) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	q := "INSERT INTO plans (plan_id, application, state, auto_dependency, created_at, plan) VALUES (?, ?, ?, ?, ?, ?)"
	_, err = r.db.Exec(q,
		p.Id,
		p.Application,
		p.State,
		p.AutoDependency,
		p.CreatedAt,
		data,
	)
	if err != nil {
		if myerr, ok := err.(*mysql.MySQLError); ok && myerr.Number == 1062 { // ER_DUP_ENTRY
			return ErrConflict
		}
		return serr.NewDbError(err, "INSERT plans")
	}
	return nil
}

func (r *mysqlRepo) Get(planId string) (proto.Plan, error) {
	var p proto.Plan
	var data []byte
	err := r.db.QueryRow("SELECT plan FROM plans WHERE plan_id = ?", planId).Scan(&data)
	switch {
	case err == sql.ErrNoRows:
		return p, serr.PlanNotFound{PlanId: planId}
	case err != nil:
		return p, serr.NewDbError(err, "SELECT plans")
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, err
	}
	return p, nil
}

func (r *mysqlRepo) List(f proto.PlanFilter) ([]proto.Plan, error) {
	var where []string
	var args []interface{}
	if f.Application != "" {
		where = append(where, "application = ?")
		args = append(args, f.Application)
	}
	if f.State != proto.STATE_UNKNOWN {
		where = append(where, "state = ?")
		args = append(args, f.State)
	}

	q := "SELECT plan FROM plans"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, plan_id DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, serr.NewDbError(err, "SELECT plans")
	}
	defer rows.Close()

	plans := []proto.Plan{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, serr.NewDbError(err, "SELECT plans")
		}
		var p proto.Plan
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.NewDbError(err, "SELECT plans")
	}
	return plans, nil
}
