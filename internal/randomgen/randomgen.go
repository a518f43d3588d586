// Package randomgen produces plausible contact data for load tests and integration tests.
package randomgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/contacts-backend/internal/model"
)

var firstNames = []string{
	"Anton", "Berta", "Carla", "Dieter", "Erika", "Friedrich", "Gisela", "Hans", "Ingrid", "Jürgen",
	"Karin", "Lothar", "Monika", "Norbert", "Olga", "Petra", "Rudi", "Sabine", "Thomas", "Ursula",
	"Volker", "Waltraud", "Xaver", "Yvonne", "Zacharias",
}

var lastNames = []string{
	"Albrecht", "Bauer", "Cäsar", "Dietrich", "Engel", "Fischer", "Graf", "Hoffmann", "Jung",
	"Keller", "Lange", "Müller", "Neumann", "Otto", "Peters", "Richter", "Schmidt", "Schulz",
	"Vogel", "Wagner", "Weber", "Zimmermann",
}

var domains = []string{"example.com", "example.org", "example.net"}

// PickFirstName returns a random first name.
func PickFirstName() string {
	return firstNames[rand.IntN(len(firstNames))]
}

// PickLastName returns a random last name.
func PickLastName() string {
	return lastNames[rand.IntN(len(lastNames))]
}

// PickPhoneNumber returns a random phone number with a German country code.
func PickPhoneNumber() string {
	return fmt.Sprintf("+49 %03d %07d", rand.IntN(1000), rand.IntN(10_000_000))
}

// PickBirthday returns a random date between 1930 and the end of 2009.
func PickBirthday() model.Date {
	start := model.NewDate(1930, time.January, 1)
	return start.AddDays(rand.IntN(80 * 365))
}

// Contact returns a new contact with random values. The email address contains tag so that
// contacts of concurrent runs do not collide.
func Contact(tag string) model.ContactCreate {
	first, last := PickFirstName(), PickLastName()
	birthday := PickBirthday()
	email := fmt.Sprintf("%s.%s.%s@%s", first, last, tag, domains[rand.IntN(len(domains))])
	return model.ContactCreate{
		FirstName:   first,
		LastName:    last,
		Email:       asciiLower(email),
		PhoneNumber: PickPhoneNumber(),
		Birthday:    &birthday,
	}
}

var umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

func asciiLower(s string) string {
	return umlauts.Replace(strings.ToLower(s))
}
