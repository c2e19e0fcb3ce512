package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/whenworksapp/whenworks-server/internal/availability"
	"github.com/whenworksapp/whenworks-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/WhenWorks/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	roomCount := 0
	identityCount := 0
	shown := 0

	err = db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte("room:")
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek([]byte("room:")); it.ValidForPrefix([]byte("room:")); it.Next() {
			item := it.Item()

			err := item.Value(func(val []byte) error {
				var room domain.Room
				if err := json.Unmarshal(val, &room); err != nil {
					return err
				}

				roomCount++
				if shown >= 5 {
					return nil
				}
				shown++

				result := availability.Compute(room.Range, room.People)
				fmt.Printf("Room: %s\n", room.ID)
				fmt.Printf("  Range: %s .. %s\n", room.Range.Start, room.Range.End)
				fmt.Printf("  People: %d\n", len(room.People))
				for _, p := range room.People {
					blocks := strings.Fields(p.Blocks)
					fmt.Printf("    [%d] %s (%d blocked)\n", p.ID, p.Name, len(blocks))
				}
				fmt.Printf("  Common dates: %d\n", len(result.CommonDates))
				fmt.Printf("  Updated: %s\n", room.UpdatedAt.Format("2006-01-02 15:04:05"))
				fmt.Println()

				return nil
			})
			if err != nil {
				log.Printf("Error reading room %s: %v", string(item.Key()), err)
			}
		}

		return nil
	})
	if err != nil {
		log.Fatalf("Failed to scan rooms: %v", err)
	}

	err = db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte("identity:")
		iterOpts.PrefetchValues = false
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek([]byte("identity:")); it.ValidForPrefix([]byte("identity:")); it.Next() {
			identityCount++
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to scan identities: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Rooms: %d\n", roomCount)
	fmt.Printf("Identities: %d\n", identityCount)
}
