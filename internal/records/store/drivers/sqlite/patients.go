package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
)

type patientsRepo struct {
	db dbtx
}

const patientColumns = `id, name, contact, diagnosis, name_cipher, contact_cipher, attending_id, created_at, updated_at`

func scanPatient(row interface{ Scan(...any) error }) (domain.Patient, error) {
	var p domain.Patient
	var attending sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Contact, &p.Diagnosis,
		&p.NameCipher, &p.ContactCipher, &attending, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Patient{}, mapNotFound(err)
	}
	p.AttendingID = mapNullStringPtr(attending)
	return p, nil
}

func (r *patientsRepo) GetPatientByID(ctx context.Context, id string) (domain.Patient, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = ?`, id)
	return scanPatient(row)
}

func (r *patientsRepo) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []domain.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *patientsRepo) CreatePatient(ctx context.Context, p domain.Patient) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patients (id, name, contact, diagnosis, name_cipher, contact_cipher, attending_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Contact, p.Diagnosis, p.NameCipher, p.ContactCipher,
		mapOptionalString(p.AttendingID), p.CreatedAt, now)
	if isConstraintErr(err) {
		return store.ErrConstraint
	}
	return err
}

func (r *patientsRepo) UpdatePatient(ctx context.Context, p domain.Patient) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE patients
		 SET name = ?, contact = ?, diagnosis = ?, name_cipher = ?, contact_cipher = ?, attending_id = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Contact, p.Diagnosis, p.NameCipher, p.ContactCipher,
		mapOptionalString(p.AttendingID), time.Now().UTC(), p.ID)
	if isConstraintErr(err) {
		return store.ErrConstraint
	}
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *patientsRepo) CountPatientsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM patients WHERE created_at < ?`, cutoff.UTC()).Scan(&count)
	return count, err
}

func (r *patientsRepo) DeletePatientsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM patients WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
