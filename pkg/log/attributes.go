// Package log defines standard attribute keys for pipeline operations.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so log lines from the analysis, preprocessing and training
// stages can be filtered together.
package log

// Model and Operation Context
const (
	// ModelNameKey identifies the model family or estimator type.
	// Examples: "random_forest", "LogisticRegression", "StandardScaler"
	ModelNameKey = "model.name"

	// SessionIDKey ties all records of one train/predict session together.
	SessionIDKey = "session.id"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"

	// TaskKey records the inferred task type ("classification" or "regression").
	TaskKey = "ml.task"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ColumnKey names the table column a record refers to.
	ColumnKey = "data.column"

	// TrainSizeKey and TestSizeKey record the sizes of the two splits.
	TrainSizeKey = "data.train_size"
	TestSizeKey  = "data.test_size"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// R2ScoreKey records R² for regression. Range (-∞, 1].
	R2ScoreKey = "metrics.r2_score"

	// RMSEKey records the root mean squared error for regression.
	RMSEKey = "metrics.rmse"

	// EvaluationKey carries a whole evaluation result as a nested object.
	EvaluationKey = "metrics.evaluation"

	// IterationKey records the current iteration number during iterative processes.
	IterationKey = "training.iteration"
)

// Prediction and Output Context
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// WarningKey carries a warning value attached to a warn-level record.
	WarningKey = "warning"
)

// Hyperparameters and Configuration
const (
	// NEstimatorsKey records the ensemble size of tree families.
	NEstimatorsKey = "hyperparams.n_estimators"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// TestFractionKey records the held-out fraction of rows.
	TestFractionKey = "config.test_fraction"
)

// Standard attribute value constants.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
	OperationAnalyze      = "analyze"
	OperationImportance   = "feature_importance"

	PhaseTraining      = "training"
	PhaseTesting       = "testing"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted        = "NOT_TRAINED"
	ErrorColumnNotFound   = "COLUMN_NOT_FOUND"
	ErrorInsufficientData = "INSUFFICIENT_DATA"
	ErrorInvalidSelection = "INVALID_SELECTION"
	ErrorUnsupported      = "UNSUPPORTED_FAMILY"
)
