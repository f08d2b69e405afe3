package service

import (
	"fmt"
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateNumbersStartAtOneAndIncrement(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin")
	course := env.createCourse(t, "必修课",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
	)

	first := env.createUser(t, "alice")
	second := env.createUser(t, "bob")
	for _, u := range []*model.User{first, second} {
		enrollment := env.enroll(t, u.ID, course.ID)
		env.completeCourse(t, u.ID, enrollment.ID, course.ID)
	}

	certA, err := env.certificate.Issue(first.ID, CertificateOverrides{}, admin.ID)
	require.NoError(t, err)
	certB, err := env.certificate.Issue(second.ID, CertificateOverrides{}, admin.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, certA.Sequence)
	assert.Equal(t, "01", certA.Number)
	assert.Equal(t, 2, certB.Sequence)
	assert.Equal(t, "02", certB.Number)
}

func TestCertificateNumberPadding(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin")
	course := env.createCourse(t, "必修课",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
	)

	// 已有 9 张存量证书，下一张应是 "10"
	for i := 1; i <= 9; i++ {
		holder := env.createUser(t, "holder")
		cert := &model.Certificate{
			UserID:   holder.ID,
			Sequence: i,
			Number:   fmt.Sprintf("%02d", i),
			IssuedAt: time.Now(),
		}
		require.NoError(t, env.db.Create(cert).Error)
	}

	user := env.createUser(t, "tenth")
	enrollment := env.enroll(t, user.ID, course.ID)
	env.completeCourse(t, user.ID, enrollment.ID, course.ID)

	cert, err := env.certificate.Issue(user.ID, CertificateOverrides{}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, cert.Sequence)
	assert.Equal(t, "10", cert.Number)
}

func TestCertificateOnePerLearner(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin")
	course := env.createCourse(t, "必修课",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
	)
	user := env.createUser(t, "alice")
	enrollment := env.enroll(t, user.ID, course.ID)
	env.completeCourse(t, user.ID, enrollment.ID, course.ID)

	_, err := env.certificate.Issue(user.ID, CertificateOverrides{}, admin.ID)
	require.NoError(t, err)

	_, err = env.certificate.Issue(user.ID, CertificateOverrides{}, admin.ID)
	assert.ErrorIs(t, err, util.ErrCertificateExists)
}

func TestCertificateUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin")

	_, err := env.certificate.Issue(9999, CertificateOverrides{}, admin.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestCertificateValidityFromEnrollments(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin")
	course := env.createCourse(t, "必修课",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
	)
	user := env.createUser(t, "alice")
	enrollment := env.enroll(t, user.ID, course.ID)
	env.completeCourse(t, user.ID, enrollment.ID, course.ID)

	stored, err := env.enrollments.FindByID(enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletedAt)

	cert, err := env.certificate.Issue(user.ID, CertificateOverrides{}, admin.ID)
	require.NoError(t, err)

	assert.WithinDuration(t, stored.EnrolledAt, cert.ValidFrom, time.Second)
	assert.WithinDuration(t, *stored.CompletedAt, cert.ValidUntil, time.Second)
	assert.Equal(t, user.Name, cert.HolderName)
	assert.Equal(t, user.Gender, cert.HolderGender)
}

func TestCertificateValidityOverrides(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin")
	course := env.createCourse(t, "必修课",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
	)
	user := env.createUser(t, "alice")
	env.enroll(t, user.ID, course.ID)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	cert, err := env.certificate.Issue(user.ID, CertificateOverrides{ValidFrom: &from, ValidUntil: &until}, admin.ID)
	require.NoError(t, err)

	assert.True(t, cert.ValidFrom.Equal(from))
	assert.True(t, cert.ValidUntil.Equal(until))
}

func TestCertificateMine(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin")
	course := env.createCourse(t, "必修课",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
	)
	user := env.createUser(t, "alice")
	env.enroll(t, user.ID, course.ID)

	_, err := env.certificate.Mine(user.ID)
	assert.ErrorIs(t, err, util.ErrCertificateNotFound)

	issued, err := env.certificate.Issue(user.ID, CertificateOverrides{}, admin.ID)
	require.NoError(t, err)

	mine, err := env.certificate.Mine(user.ID)
	require.NoError(t, err)
	assert.Equal(t, issued.Number, mine.Number)
}
