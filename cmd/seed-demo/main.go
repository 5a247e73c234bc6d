package main

import (
	"context"
	"fmt"
	"time"

	"github.com/openswad/swad-backend/internal/config"
	"github.com/openswad/swad-backend/internal/database"
	"github.com/openswad/swad-backend/internal/logger"
	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/repository"
	"github.com/openswad/swad-backend/internal/service"
)

// Seeds a small demo hierarchy: one institution, centre, degree and course
// with a teacher, twenty students and two group types.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	institutionRepo := repository.NewInstitutionRepository(pool)
	centreRepo := repository.NewCentreRepository(pool)
	degreeRepo := repository.NewDegreeRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	groupTypeRepo := repository.NewGroupTypeRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)

	authService := service.NewAuthService(cfg, nil)
	userService := service.NewUserService(userRepo, authService)

	fmt.Println("=== Seeding Demo Data ===")

	ins := &model.Institution{ShortName: "UGR", FullName: "University of Granada"}
	if err := institutionRepo.Create(ctx, ins); err != nil {
		log.Fatal().Err(err).Msg("Failed to create institution")
	}

	ctr := &model.Centre{InstitutionID: ins.ID, ShortName: "ETSIIT", FullName: "School of Computer and Telecommunication Engineering"}
	if err := centreRepo.Create(ctx, ctr); err != nil {
		log.Fatal().Err(err).Msg("Failed to create centre")
	}

	deg := &model.Degree{CentreID: ctr.ID, ShortName: "GII", FullName: "Degree in Computer Engineering"}
	if err := degreeRepo.Create(ctx, deg); err != nil {
		log.Fatal().Err(err).Msg("Failed to create degree")
	}

	crs := &model.Course{DegreeID: deg.ID, ShortName: "OS", FullName: "Operating Systems", Year: 2}
	if err := courseRepo.Create(ctx, crs); err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}
	fmt.Printf("Created course %q with ID: %d\n", crs.ShortName, crs.ID)

	teacher := &model.User{Email: "teacher@demo.swad", Name: "Demo Teacher", Role: model.RoleTeacher}
	if err := userService.Create(ctx, teacher, "teachpass"); err != nil {
		log.Fatal().Err(err).Msg("Failed to create teacher")
	}
	if err := courseRepo.AddMember(ctx, crs.ID, teacher.ID, model.CourseRoleTeacher); err != nil {
		log.Fatal().Err(err).Msg("Failed to enroll teacher")
	}

	successCount := 0
	for i := 1; i <= 20; i++ {
		student := &model.User{
			Email: fmt.Sprintf("student%02d@demo.swad", i),
			Name:  fmt.Sprintf("Demo Student %02d", i),
			Role:  model.RoleStudent,
		}
		if err := userService.Create(ctx, student, "studpass1"); err != nil {
			fmt.Printf("Error creating student %s: %v\n", student.Email, err)
			continue
		}
		if err := courseRepo.AddMember(ctx, crs.ID, student.ID, model.CourseRoleStudent); err != nil {
			fmt.Printf("Error enrolling student %s: %v\n", student.Email, err)
			continue
		}
		successCount++
	}
	fmt.Printf("Enrolled %d/20 students\n", successCount)

	labs := &model.GroupType{CourseID: crs.ID, Name: "Lab sessions", Mandatory: true, Multiple: false}
	if err := groupTypeRepo.Create(ctx, labs); err != nil {
		log.Fatal().Err(err).Msg("Failed to create group type")
	}
	seminars := &model.GroupType{CourseID: crs.ID, Name: "Seminars", Mandatory: false, Multiple: true}
	if err := groupTypeRepo.Create(ctx, seminars); err != nil {
		log.Fatal().Err(err).Msg("Failed to create group type")
	}

	capacity := 10
	for _, g := range []*model.Group{
		{GroupTypeID: labs.ID, Name: "Lab A", Capacity: &capacity, Open: true},
		{GroupTypeID: labs.ID, Name: "Lab B", Capacity: &capacity, Open: true},
		{GroupTypeID: seminars.ID, Name: "Seminar 1", Open: true},
		{GroupTypeID: seminars.ID, Name: "Seminar 2", Open: false},
	} {
		if err := groupRepo.Create(ctx, g); err != nil {
			log.Fatal().Err(err).Str("group", g.Name).Msg("Failed to create group")
		}
	}

	fmt.Println("\nSeed completed!")
}
