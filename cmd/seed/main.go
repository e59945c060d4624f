// Package main provides a tool to seed the database with test exchange data.
//
// This creates a handful of users with book listings and a few likes between
// them, so discovery, notifications and barters can be exercised against a
// populated database.
//
// Usage:
//
//	DB_PATH=~/litswap/db go run ./cmd/seed
//	DB_PATH=~/litswap/db go run ./cmd/seed --likes=0  # Listings only
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/litswap/litswap-server/internal/auth"
	"github.com/litswap/litswap-server/internal/domain"
	"github.com/litswap/litswap-server/internal/id"
	"github.com/litswap/litswap-server/internal/store"
)

var likesPerUser = flag.Int("likes", 2, "Likes each seeded user leaves on other users' books")

// seedPassword is the login password for every seeded account.
const seedPassword = "swap-books-123"

var seedUsers = []struct {
	email       string
	displayName string
	contact     string
	occupation  string
}{
	{"anna@example.com", "Anna", "@anna_reads", "librarian"},
	{"ben@example.com", "Ben", "@ben_swaps", "student"},
	{"clara@example.com", "Clara", "@clara_books", "teacher"},
	{"dmitri@example.com", "Dmitri", "@dmitri_lit", "editor"},
}

var seedBooks = []struct {
	isbn     string
	title    string
	author   string
	category string
	price    float64
}{
	{"9780140449136", "Crime and Punishment", "Fyodor Dostoevsky", "Fiction", 8.50},
	{"9780141439518", "Pride and Prejudice", "Jane Austen", "Fiction", 6.00},
	{"9780547928227", "The Hobbit", "J.R.R. Tolkien", "Fantasy", 10.00},
	{"9780451524935", "1984", "George Orwell", "Fiction", 7.25},
	{"9780062316097", "Sapiens", "Yuval Noah Harari", "History", 12.00},
	{"9780307474278", "The Girl with the Dragon Tattoo", "Stieg Larsson", "Thriller", 9.00},
	{"9780385533225", "The Night Circus", "Erin Morgenstern", "Fantasy", 8.75},
	{"9780316769488", "The Catcher in the Rye", "J.D. Salinger", "Fiction", 5.50},
	{"9780743273565", "The Great Gatsby", "F. Scott Fitzgerald", "Fiction", 4.95},
	{"9781400032716", "The Curious Incident of the Dog in the Night-Time", "Mark Haddon", "Fiction", 6.50},
	{"9780596007126", "Head First Design Patterns", "Eric Freeman", "Computers", 18.00},
	{"9780132350884", "Clean Code", "Robert C. Martin", "Computers", 20.00},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/litswap/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := createSeedUsers(ctx, s)
	if len(users) == 0 {
		log.Fatal("No users available for seeding")
	}

	booksByOwner := createSeedBooks(ctx, s, users, rng)
	createSeedLikes(ctx, s, users, booksByOwner, rng)

	fmt.Println("\nDone. Seeded accounts log in with password:", seedPassword)
}

func createSeedUsers(ctx context.Context, s *store.Store) []*domain.User {
	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	var users []*domain.User
	for _, su := range seedUsers {
		if existing, err := s.GetUserByEmail(ctx, su.email); err == nil {
			fmt.Printf("User %s already exists, reusing\n", su.email)
			users = append(users, existing)
			continue
		}

		now := time.Now()
		user := &domain.User{
			ID:            id.MustGenerate("user"),
			Email:         su.email,
			PasswordHash:  hash,
			DisplayName:   su.displayName,
			ContactHandle: su.contact,
			Occupation:    su.occupation,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.CreateUser(ctx, user); err != nil {
			log.Printf("Failed to create user %s: %v", su.email, err)
			continue
		}

		fmt.Printf("Created user: %s (%s)\n", user.DisplayName, user.ID)
		users = append(users, user)
	}

	return users
}

func createSeedBooks(ctx context.Context, s *store.Store, users []*domain.User, rng *rand.Rand) map[string][]*domain.Book {
	booksByOwner := make(map[string][]*domain.Book)

	for i, sb := range seedBooks {
		owner := users[i%len(users)]

		now := time.Now()
		book := &domain.Book{
			ID:                   id.MustGenerate("book"),
			OwnerID:              owner.ID,
			ISBN:                 sb.isbn,
			Title:                sb.title,
			Author:               sb.author,
			Category:             sb.category,
			Price:                sb.price,
			ConditionDescription: randomCondition(rng),
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := s.CreateBook(ctx, book); err != nil {
			log.Printf("Failed to create book %q: %v", sb.title, err)
			continue
		}

		fmt.Printf("Listed %q for %s\n", book.Title, owner.DisplayName)
		booksByOwner[owner.ID] = append(booksByOwner[owner.ID], book)
	}

	return booksByOwner
}

func createSeedLikes(ctx context.Context, s *store.Store, users []*domain.User, booksByOwner map[string][]*domain.Book, rng *rand.Rand) {
	if *likesPerUser <= 0 {
		return
	}

	for _, liker := range users {
		// Collect everyone else's books as candidates.
		var candidates []*domain.Book
		for ownerID, books := range booksByOwner {
			if ownerID == liker.ID {
				continue
			}
			candidates = append(candidates, books...)
		}

		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		liked := 0
		for _, book := range candidates {
			if liked >= *likesPerUser {
				break
			}
			if already, err := s.HasLiked(ctx, book.ID, liker.ID); err != nil || already {
				continue
			}

			now := time.Now()
			like := &domain.Like{
				ID:        id.MustGenerate("like"),
				BookID:    book.ID,
				LikerID:   liker.ID,
				OwnerID:   book.OwnerID,
				CreatedAt: now,
			}
			notification := &domain.Notification{
				ID:          id.MustGenerate("notif"),
				RecipientID: book.OwnerID,
				Kind:        domain.NotificationKindActionable,
				Message:     fmt.Sprintf("%s likes your book %q", liker.Name(), book.Title),
				Status:      domain.NotificationStatusPending,
				SenderID:    liker.ID,
				BookID:      book.ID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.CreateLikeWithNotification(ctx, like, notification); err != nil {
				log.Printf("Failed to create like for %s on %q: %v", liker.DisplayName, book.Title, err)
				continue
			}

			fmt.Printf("%s liked %q\n", liker.DisplayName, book.Title)
			liked++
		}
	}
}

func randomCondition(rng *rand.Rand) string {
	conditions := []string{
		"like new",
		"light shelf wear",
		"well loved, all pages intact",
		"some notes in the margins",
		"spine creased but readable",
	}
	return conditions[rng.Intn(len(conditions))]
}
