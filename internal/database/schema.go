package database

import (
	"fmt"
)

// CreateTables creates all required tables in the database.
func CreateTables() error {
	if err := createUsersTable(); err != nil {
		return err
	}
	if err := createPostsTable(); err != nil {
		return err
	}
	if err := createCommentsTable(); err != nil {
		return err
	}
	return createPostLikesTable()
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func createPostsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS posts (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_by INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}

	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS posts_created_by_created_at_idx ON posts(created_by, created_at DESC)`); err != nil {
		return fmt.Errorf("ensure posts creator index: %w", err)
	}
	return nil
}

func createCommentsTable() error {
	// post_id carries no foreign key on purpose: comments are allowed to
	// outlive their post, and comment creation does not verify the post
	// exists. Changing either is a contract decision, not a bug fix.
	query := `
	CREATE TABLE IF NOT EXISTS comments (
		id SERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		post_id INTEGER NOT NULL,
		created_by INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("create comments table: %w", err)
	}

	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS comments_post_created_at_idx ON comments(post_id, created_at DESC)`); err != nil {
		return fmt.Errorf("ensure comments post/created index: %w", err)
	}
	return nil
}

func createPostLikesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS post_likes (
		id SERIAL PRIMARY KEY,
		post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(post_id, user_id)
	);
	`

	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("create post_likes table: %w", err)
	}

	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS post_likes_post_idx ON post_likes(post_id)`); err != nil {
		return fmt.Errorf("ensure post_likes post index: %w", err)
	}
	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS post_likes_user_idx ON post_likes(user_id)`); err != nil {
		return fmt.Errorf("ensure post_likes user index: %w", err)
	}
	return nil
}
