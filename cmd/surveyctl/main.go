// surveyctl manages question sets and inspects recorded responses.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pollagents/pollagents/internal/config"
	"github.com/pollagents/pollagents/internal/domain"
	"github.com/pollagents/pollagents/internal/store"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// questionSetFile is the YAML document accepted by --create.
type questionSetFile struct {
	Name      string   `yaml:"name"`
	Questions []string `yaml:"questions"`
	Active    bool     `yaml:"active"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	createFile := pflag.StringP("create", "c", "", "create a question set from a YAML file")
	list := pflag.BoolP("list", "l", false, "list all question sets")
	responsesFor := pflag.StringP("responses", "r", "", "list responses recorded for an email address")
	pflag.Parse()

	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load configuration: %v", err)
	}

	repo, err := store.NewFromConfig(cfg)
	if err != nil {
		fatal("initialize storage: %v", err)
	}
	defer func() { _ = repo.Close() }()

	ctx := context.Background()

	switch {
	case *createFile != "":
		if err := createQuestionSet(ctx, repo, *createFile); err != nil {
			fatal("create question set: %v", err)
		}
	case *list:
		if err := listQuestionSets(ctx, repo); err != nil {
			fatal("list question sets: %v", err)
		}
	case *responsesFor != "":
		if err := listResponses(ctx, repo, *responsesFor); err != nil {
			fatal("list responses: %v", err)
		}
	default:
		pflag.Usage()
		os.Exit(2)
	}
}

func createQuestionSet(ctx context.Context, repo store.Repository, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var file questionSetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	qs, err := domain.NewQuestionSet(uuid.NewString(), file.Name, file.Questions, time.Now(), file.Active)
	if err != nil {
		return err
	}
	if err := repo.CreateQuestionSet(ctx, qs); err != nil {
		return err
	}

	fmt.Printf("created question set %s (%q, active=%t)\n", qs.ID, qs.Name, qs.Active)
	return nil
}

func listQuestionSets(ctx context.Context, repo store.Repository) error {
	sets, err := repo.ListQuestionSets(ctx)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Println("no question sets")
		return nil
	}
	for _, qs := range sets {
		marker := " "
		if qs.Active {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  (created %s)\n", marker, qs.ID, qs.Name, qs.CreatedAt.Format("2006-01-02 15:04"))
		for i, q := range qs.Questions {
			fmt.Printf("    Q%d: %s\n", i+1, q)
		}
	}
	return nil
}

func listResponses(ctx context.Context, repo store.Repository, email string) error {
	responses, err := repo.GetResponsesByEmail(ctx, email)
	if err != nil {
		return err
	}
	if len(responses) == 0 {
		fmt.Printf("no responses recorded for %s\n", email)
		return nil
	}
	for _, r := range responses {
		answers := make([]string, domain.QuestionCount)
		for i, a := range r.Answers {
			if a {
				answers[i] = "Yes"
			} else {
				answers[i] = "No"
			}
		}
		fmt.Printf("%s  set=%s  answers=%v  completed=%s\n",
			r.ID, r.QuestionSetID, answers, r.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "surveyctl: "+format+"\n", args...)
	os.Exit(1)
}
