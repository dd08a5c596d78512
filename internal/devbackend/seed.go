package devbackend

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

// Well-known accounts created by Seed so local runs can log in.
var (
	DevAdmin   = marketplace.Credentials{Email: "admin@marketplace.dev", Password: "admin-pass"}
	DevPatient = marketplace.Credentials{Email: "patient@marketplace.dev", Password: "patient-pass"}
	DevDoctor  = marketplace.Credentials{Email: "doctor@marketplace.dev", Password: "doctor-pass"}
)

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

var labTestNames = []string{
	"Complete Blood Count",
	"Lipid Panel",
	"Thyroid Panel",
	"HbA1c",
	"Vitamin D",
	"Liver Function Test",
}

type SeedSummary struct {
	Clinics  int
	Doctors  int
	Products int
	Blogs    int
	LabTests int
}

// Seed fills b with count clinics, doctors and products plus the dev
// accounts. The dev doctor works at the first clinic.
func Seed(b *Backend, count int) (SeedSummary, error) {
	if count < 1 {
		return SeedSummary{}, fmt.Errorf("%w: seed count must be at least 1", ErrInvalidInput)
	}
	faker := gofakeit.New(0)
	var sum SeedSummary

	clinicIDs := make([]string, 0, count)
	for i := 0; i < count; i++ {
		c := marketplace.Clinic{
			Name:    faker.Company() + " Clinic",
			Address: faker.Street(),
			City:    faker.City(),
			Phone:   faker.Phone(),
			OperatingHours: marketplace.OperatingHours{
				Weekdays: &marketplace.DayHours{Open: "09:00", Close: "17:00"},
			},
			SlotDuration: []int{15, 30, 45, 60}[faker.Number(0, 3)],
		}
		if i%2 == 0 {
			c.OperatingHours.Weekends = &marketplace.DayHours{Open: "10:00", Close: "14:00"}
		}
		if i == 0 {
			c.SlotDuration = 30
		}
		created, err := b.CreateClinic(c)
		if err != nil {
			return sum, fmt.Errorf("seed clinic: %w", err)
		}
		clinicIDs = append(clinicIDs, created.ID)
		sum.Clinics++
	}

	if _, err := b.addUser(marketplace.UserRegistration{Name: "Marketplace Admin", Email: DevAdmin.Email, Password: DevAdmin.Password}, true); err != nil {
		return sum, fmt.Errorf("seed admin: %w", err)
	}
	if _, err := b.RegisterUser(marketplace.UserRegistration{Name: faker.Name(), Email: DevPatient.Email, Password: DevPatient.Password, Phone: faker.Phone()}); err != nil {
		return sum, fmt.Errorf("seed patient: %w", err)
	}

	for i := 0; i < count; i++ {
		reg := marketplace.DoctorRegistration{
			Name:           "Dr. " + faker.Name(),
			Email:          faker.Email(),
			Password:       faker.Password(true, true, true, false, false, 12),
			Specialization: specialties[faker.Number(0, len(specialties)-1)],
			Experience:     faker.Number(1, 30),
			Fees:           float64(faker.Number(20, 200)),
			ClinicID:       clinicIDs[i%len(clinicIDs)],
		}
		if i == 0 {
			reg.Email, reg.Password, reg.ClinicID = DevDoctor.Email, DevDoctor.Password, clinicIDs[0]
		}
		sess, err := b.RegisterDoctor(reg)
		if err != nil {
			return sum, fmt.Errorf("seed doctor: %w", err)
		}
		sum.Doctors++

		if _, err := b.CreateBlog(sess.Doctor.ID, faker.Sentence(6), faker.Sentence(40), ""); err != nil {
			return sum, fmt.Errorf("seed blog: %w", err)
		}
		sum.Blogs++
	}

	for i := 0; i < count; i++ {
		p := marketplace.Product{
			Name:        faker.ProductName(),
			Description: faker.ProductDescription(),
			Price:       float64(faker.Number(100, 10000)) / 100,
			Category:    faker.ProductCategory(),
			Stock:       faker.Number(0, 500),
		}
		if _, err := b.CreateProduct(p); err != nil {
			return sum, fmt.Errorf("seed product: %w", err)
		}
		sum.Products++
	}

	for i, name := range labTestNames {
		b.AddLabTest(marketplace.LabTest{
			Name:        name,
			Description: faker.Sentence(10),
			Price:       float64(faker.Number(15, 120)),
			ClinicID:    clinicIDs[i%len(clinicIDs)],
		})
		sum.LabTests++
	}

	return sum, nil
}
