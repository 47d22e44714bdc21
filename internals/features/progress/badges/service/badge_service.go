package service

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	badgeModel "tutorat_backend/internals/features/progress/badges/model"
	resultModel "tutorat_backend/internals/features/progress/results/model"
	resultService "tutorat_backend/internals/features/progress/results/service"
	walletService "tutorat_backend/internals/features/wallet/service"
)

const (
	// ProgressisteBadgeName is the shared achievement granted when a
	// student's scores in any subject climb by at least 10 percent.
	ProgressisteBadgeName = "Progressiste"

	progressisteThreshold = 10.0
	progressisteBonus     = 100
)

// CheckProgressisteBadge re-evaluates badge eligibility after a result
// mutation. The badge is awarded at most once per student: the first
// subject whose improvement reaches the threshold triggers the award
// and the wallet bonus, and the scan stops there. Eligible students
// who already hold the badge get nothing extra, so calling this after
// every create or update is safe.
func CheckProgressisteBadge(db *gorm.DB, studentID uuid.UUID) error {
	var subjects []string
	if err := db.Model(&resultModel.AcademicResultModel{}).
		Where("academic_result_student_id = ?", studentID).
		Distinct("academic_result_subject").
		Order("academic_result_subject ASC").
		Pluck("academic_result_subject", &subjects).Error; err != nil {
		return err
	}

	for _, subject := range subjects {
		var rows []resultModel.AcademicResultModel
		if err := db.
			Where("academic_result_student_id = ? AND academic_result_subject = ?", studentID, subject).
			Order("academic_result_exam_date ASC").
			Find(&rows).Error; err != nil {
			return err
		}

		points := make([]resultService.ScorePoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, resultService.ScorePoint{
				ExamName: r.AcademicResultExamName,
				Score:    r.AcademicResultScore,
				MaxScore: r.AcademicResultMaxScore,
				ExamDate: r.AcademicResultExamDate,
			})
		}

		improvement := resultService.CalculateImprovement(points)
		if improvement == nil || *improvement < progressisteThreshold {
			continue
		}

		return awardProgressiste(db, studentID)
	}
	return nil
}

func awardProgressiste(db *gorm.DB, studentID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var badge badgeModel.BadgeModel
		if err := tx.
			Where(badgeModel.BadgeModel{BadgeName: ProgressisteBadgeName}).
			Attrs(badgeModel.BadgeModel{
				BadgeDescription: "Awarded for improving exam scores by 10% or more in a subject",
				BadgePoints:      progressisteBonus,
			}).
			FirstOrCreate(&badge).Error; err != nil {
			return err
		}

		var existing badgeModel.UserBadgeModel
		err := tx.
			Where("user_badge_user_id = ? AND user_badge_badge_id = ?", studentID, badge.BadgeID).
			First(&existing).Error
		if err == nil {
			// Already awarded.
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&badgeModel.UserBadgeModel{
			UserBadgeUserID:  studentID,
			UserBadgeBadgeID: badge.BadgeID,
		}).Error; err != nil {
			return err
		}

		if err := walletService.CreditWallet(tx, studentID, progressisteBonus, "Badge Progressiste"); err != nil {
			return err
		}

		log.Printf("[INFO] Progressiste badge awarded to student %s", studentID)
		return nil
	})
}
