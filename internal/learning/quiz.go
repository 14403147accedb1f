package learning

import (
	"math/rand/v2"

	"github.com/handspeak/handspeak/internal/catalog"
)

const quizOptionCount = 4

// QuizQuestion asks which word a sign video shows, multiple choice.
type QuizQuestion struct {
	SignID        string   `json:"signId"`
	VideoURL      string   `json:"videoUrl"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
}

// Flashcard pairs a word with its sign video for self-paced review.
type Flashcard struct {
	SignID       string   `json:"signId"`
	Word         string   `json:"word"`
	VideoURL     string   `json:"videoUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	RelatedSigns []string `json:"relatedSigns,omitempty"`
}

// QuizQuestions builds one multiple-choice question per video-bearing
// sign in the course. Distractors are drawn from the other signs of the
// same course, so small courses may yield fewer than four options.
func (s *Service) QuizQuestions(courseID string) []QuizQuestion {
	course, ok := s.courseByID(courseID)
	if !ok {
		return nil
	}

	valid := withVideos(course.Signs)
	questions := make([]QuizQuestion, 0, len(valid))
	for _, sign := range valid {
		options := append([]string{sign.Word}, distractors(sign.Word, valid, quizOptionCount-1)...)
		rand.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		questions = append(questions, QuizQuestion{
			SignID:        sign.SignID,
			VideoURL:      sign.VideoURL,
			CorrectAnswer: sign.Word,
			Options:       options,
		})
	}
	return questions
}

// Flashcards returns the course's video-bearing signs as review cards,
// in course order.
func (s *Service) Flashcards(courseID string) []Flashcard {
	course, ok := s.courseByID(courseID)
	if !ok {
		return nil
	}

	valid := withVideos(course.Signs)
	cards := make([]Flashcard, 0, len(valid))
	for _, sign := range valid {
		cards = append(cards, Flashcard{
			SignID:       sign.SignID,
			Word:         sign.Word,
			VideoURL:     sign.VideoURL,
			ThumbnailURL: sign.ThumbnailURL,
			RelatedSigns: sign.RelatedSigns,
		})
	}
	return cards
}

func withVideos(signs []catalog.Sign) []catalog.Sign {
	out := make([]catalog.Sign, 0, len(signs))
	for _, s := range signs {
		if s.VideoURL != "" {
			out = append(out, s)
		}
	}
	return out
}

// distractors picks up to n random words from pool, excluding the
// correct one.
func distractors(correct string, pool []catalog.Sign, n int) []string {
	words := make([]string, 0, len(pool))
	for _, s := range pool {
		if s.Word != correct {
			words = append(words, s.Word)
		}
	}
	rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}
