package seeders

import (
	"encoding/json"
	"log"

	"gymdesk_go/database"
	"gymdesk_go/models"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedMembershipPlans()

	log.Println("Database seeding completed successfully!")
}

// SeedMembershipPlans seeds a starter set of plans so a fresh install
// can register members right away
func SeedMembershipPlans() {
	var count int64
	database.DB.Model(&models.MembershipPlan{}).Count(&count)
	if count > 0 {
		log.Println("Membership plans already seeded, skipping...")
		return
	}

	basicFeatures, _ := json.Marshal([]string{"gym_floor"})
	standardFeatures, _ := json.Marshal([]string{"gym_floor", "group_classes"})
	fullFeatures, _ := json.Marshal([]string{"gym_floor", "group_classes", "sauna", "personal_locker"})

	plans := []models.MembershipPlan{
		{
			Name:        "Basic",
			Description: "Gym floor access, up to 3 visits per week",
			Price:       25.00,
			DaysPerWeek: 3,
			IsActive:    true,
			Features:    string(basicFeatures),
		},
		{
			Name:        "Standard",
			Description: "Gym floor and group classes, up to 5 visits per week",
			Price:       35.00,
			DaysPerWeek: 5,
			IsActive:    true,
			Features:    string(standardFeatures),
		},
		{
			Name:        "Full",
			Description: "Unlimited access to all facilities",
			Price:       50.00,
			DaysPerWeek: 7,
			IsActive:    true,
			Features:    string(fullFeatures),
		},
	}

	for _, plan := range plans {
		if err := database.DB.Create(&plan).Error; err != nil {
			log.Printf("Error seeding plan %s: %v", plan.Name, err)
		}
	}

	log.Println("Membership plans seeded successfully")
}
