package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/anonto42/nano-midea/notifier/internal/models"
	"github.com/anonto42/nano-midea/notifier/internal/repositories"
	"github.com/spf13/cobra"
	"gorm.io/datatypes"
)

// SeedFile is the TOML layout accepted by "notifyctl seed".
//
//	[[users]]
//	name = "alice"
//	[users.preferences]
//	notifyPosts = false
//
//	[[follows]]
//	follower = "bob"
//	followee = "alice"
type SeedFile struct {
	Users   []SeedUser   `toml:"users"`
	Follows []SeedFollow `toml:"follows"`
}

type SeedUser struct {
	Name        string          `toml:"name"`
	Email       string          `toml:"email,omitempty"`
	Preferences map[string]bool `toml:"preferences,omitempty"`
}

// SeedFollow references users by name.
type SeedFollow struct {
	Follower string `toml:"follower"`
	Followee string `toml:"followee"`
}

// SeedResult counts what applySeed wrote.
type SeedResult struct {
	Users        map[string]uint
	Follows      int
	SkippedDupes int
}

func parseSeed(r io.Reader) (*SeedFile, error) {
	var seed SeedFile
	if _, err := toml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	names := make(map[string]bool, len(seed.Users))
	for i, u := range seed.Users {
		if u.Name == "" {
			return nil, fmt.Errorf("users[%d]: name is required", i)
		}
		if names[u.Name] {
			return nil, fmt.Errorf("users[%d]: duplicate name %q", i, u.Name)
		}
		names[u.Name] = true
	}
	for i, f := range seed.Follows {
		if !names[f.Follower] || !names[f.Followee] {
			return nil, fmt.Errorf("follows[%d]: unknown user in %q -> %q", i, f.Follower, f.Followee)
		}
		if f.Follower == f.Followee {
			return nil, fmt.Errorf("follows[%d]: %q cannot follow themselves", i, f.Follower)
		}
	}
	return &seed, nil
}

// applySeed creates the users and then the follow edges. Follows created here
// do not produce notifications. Existing edges are counted and skipped.
func applySeed(ctx context.Context, users repositories.UserRepository, follows repositories.FollowRepository, seed *SeedFile) (*SeedResult, error) {
	result := &SeedResult{Users: make(map[string]uint, len(seed.Users))}

	for _, su := range seed.Users {
		user := models.NewUser(su.Name)
		if su.Email != "" {
			email := su.Email
			user.Email = &email
		}
		prefs := models.DefaultPreferences()
		for k, v := range su.Preferences {
			prefs[k] = v
		}
		user.Preferences = datatypes.NewJSONType(prefs)

		if err := users.CreateUser(ctx, user); err != nil {
			return result, fmt.Errorf("create user %q: %w", su.Name, err)
		}
		result.Users[su.Name] = user.ID
	}

	for _, sf := range seed.Follows {
		follow := &models.Follow{
			FollowerID: result.Users[sf.Follower],
			FolloweeID: result.Users[sf.Followee],
		}
		if err := follows.CreateFollow(ctx, follow); err != nil {
			if errors.Is(err, repositories.ErrDuplicateFollow) {
				result.SkippedDupes++
				continue
			}
			return result, fmt.Errorf("create follow %q -> %q: %w", sf.Follower, sf.Followee, err)
		}
		result.Follows++
	}
	return result, nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create users and follows from a TOML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		migrate, _ := cmd.Flags().GetBool("migrate")

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		seed, err := parseSeed(f)
		if err != nil {
			return err
		}

		if migrate {
			if err := db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Notification{}); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
		}

		result, err := applySeed(cmd.Context(),
			repositories.NewPostgresUserRepository(db),
			repositories.NewPostgresFollowRepository(db),
			seed)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d users and %d follows (%d already existed)\n",
			len(result.Users), result.Follows, result.SkippedDupes)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "seed.toml", "seed file path")
	seedCmd.Flags().Bool("migrate", false, "create missing tables before seeding")
}
