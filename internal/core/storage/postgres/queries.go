package postgres

// SQL queries for user, linked account and activity log storage

const (
	// queryInsertUser inserts a user keyed by external_id.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) when the external_id is taken.
	queryInsertUser = `
		INSERT INTO users (
			external_id, email, first_name, last_name, username,
			unique_global_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	queryGetUserByExternalID = `
		SELECT
			id, external_id, email, first_name, last_name, username,
			unique_global_id, created_at, updated_at
		FROM users
		WHERE external_id = $1
	`

	queryUpdateUser = `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, username = $5, updated_at = $6
		WHERE external_id = $1
		RETURNING
			id, external_id, email, first_name, last_name, username,
			unique_global_id, created_at, updated_at
	`

	queryListLinkedAccounts = `
		SELECT id, user_id, provider, provider_user_id, email, profile_url
		FROM user_social_accounts
		WHERE user_id = $1
		ORDER BY id ASC
	`

	// queryDeleteLinkedAccounts removes a batch of accounts by primary key.
	queryDeleteLinkedAccounts = `
		DELETE FROM user_social_accounts
		WHERE id = ANY($1)
	`

	queryAppendActivity = `
		INSERT INTO user_activity_log (user_id, activity_type, created_at)
		VALUES ($1, $2, $3)
	`

	// insertLinkedAccountsPrefix is completed by buildInsertLinkedAccounts with one
	// VALUES tuple per account.
	insertLinkedAccountsPrefix = `
		INSERT INTO user_social_accounts (
			user_id, provider, provider_user_id, email, profile_url
		)
		VALUES `

	// insertLinkedAccountsSuffix skips rows that already exist for the same user and identity key,
	// so concurrent reconciliations of one user never duplicate an account.
	insertLinkedAccountsSuffix = `
		ON CONFLICT (user_id, provider, provider_user_id) DO NOTHING
	`
)
