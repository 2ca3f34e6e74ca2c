package seed

import (
	"context"
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"medinv/m/internal/store"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@medinv.local"
	demoPassword = "Demo1234"
)

// LoadSampleProducts ingests the sample CSV into a demo pharmacy account so a
// fresh install has data to browse and chart. Safe to call repeatedly: it does
// nothing once the demo inventory exists.
func LoadSampleProducts(db *sqlx.DB, csvPath string) {
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load sample data %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	userID, err := ensureDemoUser(db)
	if err != nil {
		log.Printf("unable to prepare demo account: %v", err)
		return
	}

	var existing int64
	if err := db.Get(&existing, `SELECT COUNT(*) FROM products WHERE user_id = ?`, userID); err != nil || existing > 0 {
		return
	}

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read sample data header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start sample data transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT INTO products (user_id, name, expiry_date, quantity, amount) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("unable to prepare sample insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read sample row: %v", err)
			continue
		}
		if len(record) < 6 {
			continue
		}
		name := strings.TrimSpace(record[2])
		expiry := strings.TrimSpace(record[3])
		quantity, qErr := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
		amount, aErr := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
		if name == "" || qErr != nil || aErr != nil {
			continue
		}

		if _, err := stmt.Exec(userID, name, expiry, quantity, amount); err != nil {
			log.Printf("unable to insert sample product %s: %v", name, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit sample data: %v", err)
	} else {
		log.Printf("seeded demo inventory with %d products", rows)
	}
}

func ensureDemoUser(db *sqlx.DB) (int64, error) {
	var id int64
	err := db.Get(&id, `SELECT id FROM users WHERE username = ?`, demoUsername)
	if err == nil {
		return id, nil
	}
	return store.NewUserStore(db).Create(context.Background(), "Demo Pharmacy", demoUsername, demoEmail, demoPassword)
}
