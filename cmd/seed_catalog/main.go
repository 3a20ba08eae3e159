// Command seed_catalog wipes the database and loads a small starter catalog
// of books and members, for demos and local development.
package main

import (
	"fmt"
	"os"

	"library-service/library"
)

const dbFile = "library.db"

func main() {
	// Clean up any existing database files.
	for _, file := range []string{dbFile, dbFile + "-shm", dbFile + "-wal"} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: could not remove %s: %v\n", file, err)
		}
	}

	store, err := library.OpenStore(dbFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	engine := library.NewEngine(store)

	books := []library.BookParams{
		{Title: "1984", Author: "George Orwell", ISBN: "9780451524935", Publisher: "Secker & Warburg"},
		{Title: "Animal Farm", Author: "George Orwell", ISBN: "9780452284241", Publisher: "Secker & Warburg"},
		{Title: "The Art of War", Author: "Sun Tzu"},
		{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", ISBN: "9780547928210", Publisher: "Allen & Unwin"},
		{Title: "The Two Towers", Author: "J.R.R. Tolkien", ISBN: "9780547928203", Publisher: "Allen & Unwin"},
		{Title: "The Return of the King", Author: "J.R.R. Tolkien", ISBN: "9780547928197", Publisher: "Allen & Unwin"},
		{Title: "Romeo and Juliet", Author: "William Shakespeare"},
		{Title: "The Three Musketeers", Author: "Alexandre Dumas", Publisher: "Baudry"},
	}
	members := []library.MemberParams{
		{Name: "Alice Carter", Email: "alice@example.com", Phone: "555-010-1234"},
		{Name: "Bob Devlin", Email: "bob@example.com"},
		{Name: "Charlie Eng", Address: "12 Elm Street"},
	}

	for _, p := range books {
		b, err := engine.CreateBook(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error adding book %q: %v\n", p.Title, err)
			os.Exit(1)
		}
		fmt.Printf("Added book %d: %s\n", b.ID, b.Title)
	}
	for _, p := range members {
		m, err := engine.CreateMember(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error adding member %q: %v\n", p.Name, err)
			os.Exit(1)
		}
		fmt.Printf("Added member %d: %s\n", m.ID, m.Name)
	}

	fmt.Printf("Seeded %d books and %d members into %s\n", len(books), len(members), dbFile)
}
