package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brightpath/quizhall-backend/internal/config"
	"github.com/brightpath/quizhall-backend/internal/database"
	"github.com/brightpath/quizhall-backend/internal/logger"
	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/brightpath/quizhall-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)

	fmt.Println("=== Seeding Demo Quizzes ===")

	// Find or create the demo teacher that authors the seed content.
	var authorID int
	teacher, err := userRepo.GetByEmail(ctx, "teacher@quizhall.dev")
	if err != nil {
		if err != pgx.ErrNoRows {
			log.Fatal().Err(err).Msg("Failed to check demo teacher")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte("teachme123"), cfg.BcryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash password")
		}
		demo := &model.User{
			Name:         "Demo Teacher",
			Email:        "teacher@quizhall.dev",
			PasswordHash: string(hash),
			Role:         model.RoleTeacher,
		}
		if err := userRepo.Create(ctx, demo); err != nil {
			log.Fatal().Err(err).Msg("Failed to create demo teacher")
		}
		authorID = demo.ID
		fmt.Printf("Created demo teacher with ID: %d\n", authorID)
	} else {
		authorID = teacher.ID
		fmt.Printf("Found demo teacher with ID: %d\n", authorID)
	}

	seeds := []struct {
		quiz      model.Quiz
		questions []model.Question
	}{
		{
			quiz: model.Quiz{
				AuthorID:        authorID,
				Title:           "English Grammar Basics",
				Subject:         "English",
				Grade:           "7",
				Semester:        "1",
				Category:        "Grammar",
				DurationMinutes: 15,
			},
			questions: []model.Question{
				{
					Type:         model.QuestionTypeMCQ,
					Prompt:       "Which sentence is correct?",
					Options:      []string{"She go to school.", "She goes to school.", "She going to school.", "She gone to school."},
					CorrectIndex: intPtr(1),
					OrderNum:     0,
				},
				{
					Type:         model.QuestionTypeTF,
					Prompt:       "\"Children\" is the plural form of \"child\".",
					Options:      []string{"True", "False"},
					CorrectIndex: intPtr(0),
					OrderNum:     1,
				},
				{
					Type:     model.QuestionTypeReorder,
					Prompt:   "Arrange the words into a correct sentence.",
					Options:  []string{"I", "am", "reading", "a", "book"},
					OrderNum: 2,
				},
				{
					Type:        model.QuestionTypeRewrite,
					Prompt:      "Rewrite in the past tense: \"I eat breakfast.\"",
					CorrectText: strPtr("I ate breakfast."),
					OrderNum:    3,
				},
			},
		},
		{
			quiz: model.Quiz{
				AuthorID:        authorID,
				Title:           "Reading Comprehension: The Water Cycle",
				Subject:         "Science",
				Grade:           "8",
				Semester:        "1",
				Category:        "Reading",
				DurationMinutes: 20,
				QuestionSeconds: intPtr(90),
				IsPremium:       true,
			},
			questions: []model.Question{
				{
					Type:         model.QuestionTypeReading,
					Prompt:       "According to the passage, what drives evaporation?",
					Passage:      "The water cycle describes how water moves through Earth's systems. Heat from the sun drives evaporation, lifting water vapor from oceans and lakes. As vapor rises it cools and condenses into clouds, eventually returning as precipitation.",
					Options:      []string{"Wind currents", "Heat from the sun", "Ocean tides", "Cloud formation"},
					CorrectIndex: intPtr(1),
					OrderNum:     0,
				},
				{
					Type:         model.QuestionTypeMCQ,
					Prompt:       "What do we call water falling back to Earth?",
					Options:      []string{"Condensation", "Evaporation", "Precipitation", "Transpiration"},
					CorrectIndex: intPtr(2),
					OrderNum:     1,
				},
				{
					Type:         model.QuestionTypeTF,
					Prompt:       "Water vapor condenses as it rises and cools.",
					Options:      []string{"True", "False"},
					CorrectIndex: intPtr(0),
					OrderNum:     2,
				},
			},
		},
		{
			quiz: model.Quiz{
				AuthorID:        authorID,
				Title:           "Mental Arithmetic Sprint",
				Subject:         "Math",
				Grade:           "7",
				Semester:        "2",
				Category:        "Arithmetic",
				DurationMinutes: 10,
				QuestionSeconds: intPtr(30),
				KeepOrder:       true,
			},
			questions: []model.Question{
				{
					Type:         model.QuestionTypeMCQ,
					Prompt:       "What is 17 × 6?",
					Options:      []string{"96", "102", "108", "112"},
					CorrectIndex: intPtr(1),
					OrderNum:     0,
				},
				{
					Type:         model.QuestionTypeMCQ,
					Prompt:       "What is 144 ÷ 12?",
					Options:      []string{"10", "11", "12", "14"},
					CorrectIndex: intPtr(2),
					OrderNum:     1,
				},
				{
					Type:         model.QuestionTypeTF,
					Prompt:       "The sum of two odd numbers is always even.",
					Options:      []string{"True", "False"},
					CorrectIndex: intPtr(0),
					OrderNum:     2,
				},
			},
		},
	}

	for _, seed := range seeds {
		quiz := seed.quiz
		if err := quizRepo.Create(ctx, &quiz); err != nil {
			log.Fatal().Err(err).Str("title", quiz.Title).Msg("Failed to create quiz")
		}
		if err := quizRepo.ReplaceQuestions(ctx, quiz.ID, seed.questions); err != nil {
			log.Fatal().Err(err).Str("title", quiz.Title).Msg("Failed to seed questions")
		}
		fmt.Printf("Seeded quiz %q with %d questions\n", quiz.Title, len(seed.questions))
	}

	fmt.Println("Done.")
}
