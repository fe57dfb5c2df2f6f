package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_unique_source_file",
			SQL: `SELECT source_file_id, COUNT(*) FROM compliance_documents
                  WHERE source_file_id IS NOT NULL
                  GROUP BY source_file_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O2_assignment_xor",
			SQL: `SELECT id FROM compliance_documents
                  WHERE num_nonnulls(employee_id, external_name) <> 1`,
		},
		{
			Name: "O3_dates_present",
			SQL: `SELECT id FROM compliance_documents
                  WHERE issue_date IS NULL OR expiration_date IS NULL`,
		},
		{
			Name: "O4_updated_after_created",
			SQL: `SELECT id FROM compliance_documents
                  WHERE updated_at < created_at`,
		},
		{
			Name: "O5_employee_fk_resolves",
			SQL: `SELECT d.id FROM compliance_documents d
                  LEFT JOIN employees e ON e.id = d.employee_id
                  WHERE d.employee_id IS NOT NULL AND e.id IS NULL`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
