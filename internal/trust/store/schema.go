package store

// Schema is the DDL for the engine-owned tables. Applied by the deployment
// migration tooling; integration tests apply it directly.
//
// Scores are NUMERIC(5,2): fixed-point, two decimal places, range [0, 100].
const Schema = `
CREATE TABLE IF NOT EXISTS trust_ratings (
	user_id             UUID PRIMARY KEY,
	overall_score       NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (overall_score BETWEEN 0 AND 100),
	profile_score       NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (profile_score BETWEEN 0 AND 100),
	verification_score  NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (verification_score BETWEEN 0 AND 100),
	review_score        NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (review_score BETWEEN 0 AND 100),
	transaction_score   NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (transaction_score BETWEEN 0 AND 100),
	total_reviews       INTEGER NOT NULL DEFAULT 0 CHECK (total_reviews >= 0),
	positive_reviews    INTEGER NOT NULL DEFAULT 0 CHECK (positive_reviews >= 0),
	last_calculated     TIMESTAMPTZ NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS business_trust_ratings (
	business_id               UUID PRIMARY KEY,
	overall_score             NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (overall_score BETWEEN 0 AND 100),
	profile_score             NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (profile_score BETWEEN 0 AND 100),
	verification_score        NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (verification_score BETWEEN 0 AND 100),
	review_score              NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (review_score BETWEEN 0 AND 100),
	transaction_score         NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (transaction_score BETWEEN 0 AND 100),
	verified_with_third_party BOOLEAN NOT NULL DEFAULT FALSE,
	last_calculated           TIMESTAMPTZ NOT NULL,
	created_at                TIMESTAMPTZ NOT NULL,
	updated_at                TIMESTAMPTZ NOT NULL
);
`
