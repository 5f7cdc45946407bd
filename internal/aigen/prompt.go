package aigen

import (
	"fmt"
	"strings"

	"github.com/mind-engage/quizmaster/internal/lesson"
)

func describeType(t lesson.QuestionType) string {
	switch t {
	case lesson.TrueFalse:
		return "Σωστό/Λάθος (Η απάντηση ΠΡΕΠΕΙ να είναι ['Σωστό'] ή ['Λάθος'])"
	case lesson.MultipleChoice:
		return "Πολλαπλής Επιλογής (Μπορεί να έχει μία ή περισσότερες σωστές απαντήσεις)"
	case lesson.SingleChoice:
		return "Μοναδικής Επιλογής (Ακριβώς μία σωστή απάντηση)"
	case lesson.FillBlanks:
		return "Συμπλήρωση Κενών (Ο χρήστης επιλέγει τη σωστή λέξη για το κενό [____])"
	}
	return string(t)
}

func buildPrompt(req Request) string {
	descs := make([]string, 0, len(req.Types))
	for _, t := range req.Types {
		descs = append(descs, describeType(t))
	}
	return fmt.Sprintf(`
Βασισμένο στο παρακάτω εκπαιδευτικό περιεχόμενο, δημιούργησε ένα κουίζ με %d ερωτήσεις.
Οι τύποι των ερωτήσεων πρέπει να είναι: %s.

Εκπαιδευτικό Περιεχόμενο:
"%s"

Σημαντικοί Κανόνες:
1. Το πεδίο correctAnswer ΠΡΕΠΕΙ να είναι ΠΙΝΑΚΑΣ (ARRAY) από strings, ακόμη και αν υπάρχει μόνο μία σωστή απάντηση.
2. Για τον τύπο TRUE_FALSE, το correctAnswer πρέπει να είναι ["Σωστό"] ή ["Λάθος"].
3. Για τον τύπο MULTIPLE_CHOICE, συμπεριέλαβε στον πίνακα όλες τις ορθές επιλογές.
4. Επίστρεψε τις ερωτήσεις αυστηρά σε μορφή JSON.
`, req.Count, strings.Join(descs, ", "), req.Content)
}
