// Package seed loads the bundled example subjects, quizzes and answer
// sheets into a fresh database.
package seed

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/abhisek/quizvault/internal/quiz"
	"github.com/abhisek/quizvault/internal/scoring"
)

//go:embed data
var dataFS embed.FS

// MarkerKey is the metadata row written once a preload has completed.
const MarkerKey = "seed.preloaded"

// answerKeyPrefix namespaces the per-file rows that keep answer sheets from
// being imported twice.
const answerKeyPrefix = "seed.answers."

// Subjects are created first, in this order.
var Subjects = []quiz.Subject{
	{Name: "EVS Water Supply", Description: "Quizzes related to Environmental Science."},
	{Name: "Water treatment", Description: "Quizzes about treatment."},
}

// Store is the subset of *store.Store the preload needs.
type Store interface {
	GetMeta(ctx context.Context, key string) (string, bool, error)
	SetMeta(ctx context.Context, key, value string) error
	FindSubjectByName(ctx context.Context, name string) (*quiz.Subject, error)
	CreateSubject(ctx context.Context, name, description string) (*quiz.Subject, error)
	ListSubjects(ctx context.Context) ([]quiz.Subject, error)
	ListQuizzesBySubject(ctx context.Context, subjectID string) ([]quiz.Quiz, error)
	CreateQuiz(ctx context.Context, in quiz.Quiz) (*quiz.Quiz, error)
	ListQuizResultsByQuiz(ctx context.Context, quizID string) ([]quiz.Result, error)
	SaveQuizResult(ctx context.Context, in quiz.Result) (*quiz.Result, error)
}

// Report counts what a Preload call created.
type Report struct {
	AlreadyLoaded bool
	Subjects      int
	Quizzes       int
	Results       int
}

// Preload inserts the bundled data unless the marker row exists. Every step
// skips records that are already present, so a run that failed part way can
// simply be repeated. The marker is written only after all steps succeed.
func Preload(ctx context.Context, s Store, logger *zap.Logger) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var rep Report
	if _, done, err := s.GetMeta(ctx, MarkerKey); err != nil {
		return rep, fmt.Errorf("seed: check marker: %w", err)
	} else if done {
		rep.AlreadyLoaded = true
		return rep, nil
	}

	subjects, err := ensureSubjects(ctx, s, &rep)
	if err != nil {
		return rep, err
	}
	if err := loadQuizzes(ctx, s, subjects, &rep, logger); err != nil {
		return rep, err
	}
	if err := loadAnswers(ctx, s, &rep, logger); err != nil {
		return rep, err
	}

	if err := s.SetMeta(ctx, MarkerKey, "true"); err != nil {
		return rep, fmt.Errorf("seed: write marker: %w", err)
	}
	logger.Info("preloaded example data",
		zap.Int("subjects", rep.Subjects),
		zap.Int("quizzes", rep.Quizzes),
		zap.Int("results", rep.Results),
	)
	return rep, nil
}

func ensureSubjects(ctx context.Context, s Store, rep *Report) (map[string]*quiz.Subject, error) {
	byName := make(map[string]*quiz.Subject, len(Subjects))
	for _, want := range Subjects {
		sub, err := s.FindSubjectByName(ctx, want.Name)
		if err != nil {
			return nil, fmt.Errorf("seed: find subject %q: %w", want.Name, err)
		}
		if sub == nil {
			sub, err = s.CreateSubject(ctx, want.Name, want.Description)
			if err != nil {
				return nil, fmt.Errorf("seed: create subject %q: %w", want.Name, err)
			}
			rep.Subjects++
		}
		byName[want.Name] = sub
	}
	return byName, nil
}

func loadQuizzes(ctx context.Context, s Store, subjects map[string]*quiz.Subject, rep *Report, logger *zap.Logger) error {
	files, err := dataFiles("data/quizzes")
	if err != nil {
		return err
	}

	for _, name := range files {
		raw, err := dataFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("seed: read %s: %w", name, err)
		}
		imp, err := quiz.ParseImport(raw)
		if err != nil {
			return fmt.Errorf("seed: %s: %w", name, err)
		}

		sub, ok := subjects[imp.SubjectName]
		if !ok {
			logger.Warn("seed quiz names an unknown subject", zap.String("file", name), zap.String("subject", imp.SubjectName))
			continue
		}

		existing, err := s.ListQuizzesBySubject(ctx, sub.ID)
		if err != nil {
			return fmt.Errorf("seed: list quizzes: %w", err)
		}
		if hasTitle(existing, imp.Title) {
			continue
		}

		if err := quiz.ValidateQuestions(imp.Questions); err != nil {
			return fmt.Errorf("seed: %s: %w", name, err)
		}
		if _, err := s.CreateQuiz(ctx, quiz.Quiz{
			Title:      imp.Title,
			SubjectID:  sub.ID,
			Difficulty: imp.Difficulty,
			Kind:       imp.Kind,
			Questions:  imp.Questions,
		}); err != nil {
			return fmt.Errorf("seed: create quiz %q: %w", imp.Title, err)
		}
		rep.Quizzes++
	}
	return nil
}

func loadAnswers(ctx context.Context, s Store, rep *Report, logger *zap.Logger) error {
	files, err := dataFiles("data/answers")
	if err != nil {
		return err
	}

	quizzes, err := allQuizzes(ctx, s)
	if err != nil {
		return err
	}

	for _, name := range files {
		key := answerKeyPrefix + path.Base(name)
		if _, done, err := s.GetMeta(ctx, key); err != nil {
			return fmt.Errorf("seed: check %s: %w", key, err)
		} else if done {
			continue
		}

		raw, err := dataFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("seed: read %s: %w", name, err)
		}
		sheet, err := quiz.ParseAnswerSheet(raw)
		if err != nil {
			return fmt.Errorf("seed: %s: %w", name, err)
		}

		target := findByTitle(quizzes, sheet.QuizTitle)
		if target == nil {
			logger.Warn("seed answer sheet names an unknown quiz", zap.String("file", name), zap.String("quiz", sheet.QuizTitle))
			continue
		}

		result, err := scoring.FromAnswerSheet(target, sheet.AnsweredQuestions)
		if err != nil {
			return fmt.Errorf("seed: %s: %w", name, err)
		}

		// A previous run may have saved the result but not its key row.
		id, err := findSheetResult(ctx, s, target.ID, result.AnsweredQuestions)
		if err != nil {
			return fmt.Errorf("seed: list results for %q: %w", target.Title, err)
		}
		if id == "" {
			saved, err := s.SaveQuizResult(ctx, *result)
			if err != nil {
				return fmt.Errorf("seed: save result for %q: %w", target.Title, err)
			}
			id = saved.ID
			rep.Results++
		}
		if err := s.SetMeta(ctx, key, id); err != nil {
			return fmt.Errorf("seed: record %s: %w", key, err)
		}
	}
	return nil
}

// findSheetResult returns the id of a stored result on quizID whose graded
// answers match answered, or "".
func findSheetResult(ctx context.Context, s Store, quizID string, answered []quiz.AnsweredQuestion) (string, error) {
	results, err := s.ListQuizResultsByQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}
	for _, r := range results {
		if slices.Equal(r.AnsweredQuestions, answered) {
			return r.ID, nil
		}
	}
	return "", nil
}

func dataFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(dataFS, dir)
	if err != nil {
		return nil, fmt.Errorf("seed: list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".json" {
			out = append(out, path.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func allQuizzes(ctx context.Context, s Store) ([]quiz.Quiz, error) {
	subjects, err := s.ListSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: list subjects: %w", err)
	}
	var out []quiz.Quiz
	for _, sub := range subjects {
		qs, err := s.ListQuizzesBySubject(ctx, sub.ID)
		if err != nil {
			return nil, fmt.Errorf("seed: list quizzes: %w", err)
		}
		out = append(out, qs...)
	}
	return out, nil
}

func hasTitle(qs []quiz.Quiz, title string) bool {
	return findByTitle(qs, title) != nil
}

func findByTitle(qs []quiz.Quiz, title string) *quiz.Quiz {
	for i := range qs {
		if qs[i].Title == title {
			return &qs[i]
		}
	}
	return nil
}
