package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var database *sql.DB

// InitDB initializes the SQLite database
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS training_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        model_name VARCHAR(50) NOT NULL,
        data_source VARCHAR(20) NOT NULL,
        data_path TEXT,
        digest VARCHAR(64) NOT NULL,
        accuracy REAL,
        precision REAL,
        recall REAL,
        train_rows INTEGER,
        test_rows INTEGER,
        bias REAL,
        weights TEXT,
        scaler_mean TEXT,
        scaler_scale TEXT,
        trained_at DATETIME
    );
    CREATE INDEX IF NOT EXISTS idx_training_log_trained_at ON training_log (trained_at);
    `

	if _, err = database.Exec(query); err != nil {
		database.Close()
		database = nil
		return err
	}
	return nil
}

// CloseDB closes the database opened by InitDB.
func CloseDB() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}

type TrainingLog struct {
	ID          int64     `json:"id"`
	ModelName   string    `json:"model_name"`
	DataSource  string    `json:"data_source"`
	DataPath    string    `json:"data_path"`
	Digest      string    `json:"digest"`
	Accuracy    float64   `json:"accuracy"`
	Precision   float64   `json:"precision"`
	Recall      float64   `json:"recall"`
	TrainRows   int       `json:"train_rows"`
	TestRows    int       `json:"test_rows"`
	Bias        float64   `json:"bias"`
	Weights     []float64 `json:"weights"`
	ScalerMean  []float64 `json:"scaler_mean"`
	ScalerScale []float64 `json:"scaler_scale"`
	TrainedAt   time.Time `json:"trained_at"`
}

func SaveTrainingLog(log TrainingLog) (int64, error) {
	if database == nil {
		return 0, errors.New("database not initialized")
	}
	weights, err := json.Marshal(log.Weights)
	if err != nil {
		return 0, err
	}
	mean, err := json.Marshal(log.ScalerMean)
	if err != nil {
		return 0, err
	}
	scale, err := json.Marshal(log.ScalerScale)
	if err != nil {
		return 0, err
	}
	if log.TrainedAt.IsZero() {
		log.TrainedAt = time.Now()
	}
	result, err := database.Exec(`
        INSERT INTO training_log (
            model_name, data_source, data_path, digest, accuracy, precision, recall,
            train_rows, test_rows, bias, weights, scaler_mean, scaler_scale, trained_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		log.ModelName,
		log.DataSource,
		log.DataPath,
		log.Digest,
		log.Accuracy,
		log.Precision,
		log.Recall,
		log.TrainRows,
		log.TestRows,
		log.Bias,
		string(weights),
		string(mean),
		string(scale),
		log.TrainedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// LoadTrainingLog returns the most recent runs first. A non-positive limit
// returns every run.
func LoadTrainingLog(limit int) ([]TrainingLog, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := database.Query(`
        SELECT id, model_name, data_source, data_path, digest, accuracy, precision, recall,
               train_rows, test_rows, bias, weights, scaler_mean, scaler_scale, trained_at
        FROM training_log
        ORDER BY trained_at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]TrainingLog, 0)
	for rows.Next() {
		var log TrainingLog
		var dataPath sql.NullString
		var weights, mean, scale string
		if err := rows.Scan(&log.ID, &log.ModelName, &log.DataSource, &dataPath, &log.Digest,
			&log.Accuracy, &log.Precision, &log.Recall, &log.TrainRows, &log.TestRows, &log.Bias,
			&weights, &mean, &scale, &log.TrainedAt); err != nil {
			return nil, err
		}
		log.DataPath = dataPath.String
		if err := json.Unmarshal([]byte(weights), &log.Weights); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(mean), &log.ScalerMean); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(scale), &log.ScalerScale); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
