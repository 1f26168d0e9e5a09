// Package log defines standard attribute keys for svmopt operations.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples")
// so that logs from the SVM, the constrained solver and the MLP optimizers
// can be filtered the same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type, e.g. "SVC".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "layer_update".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package or sub-system logging the record.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey is the number of rows in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of columns in the dataset.
	FeaturesKey = "data.features"

	// LayerKey is the MLP layer index passed to an optimizer.
	LayerKey = "data.layer"
)

// Performance and Training
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// LossKey records the (negated dual) loss value.
	LossKey = "metrics.loss"

	// IterationKey records the current outer iteration of an iterative solver.
	IterationKey = "training.iteration"

	// ViolationKey records the constraint violation measure of the solver.
	ViolationKey = "training.violation"

	// PenaltyKey records the augmented Lagrangian penalty parameter.
	PenaltyKey = "training.penalty"

	// GradMaxKey records the running maximum gradient seen by an optimizer.
	GradMaxKey = "training.grad_max"
)

// SVM specific
const (
	// KernelKey records the kernel name ("gaussian", "linear", ...).
	KernelKey = "svm.kernel"

	// SupportVectorsKey records the number of support vectors after fitting.
	SupportVectorsKey = "svm.support_vectors"

	// OffsetKey records the discriminant offset (theta).
	OffsetKey = "svm.offset"

	// LossModeKey records which loss implementation was used for fitting.
	LossModeKey = "svm.loss_mode"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Hyperparameters
const (
	// LearningRateKey records the learning rate of an MLP optimizer.
	LearningRateKey = "hyperparams.learning_rate"

	// RegularizationKey records the L2 regularization strength.
	RegularizationKey = "hyperparams.regularization"

	// RandomSeedKey records the random seed used for the initial dual variables.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit         = "fit"
	OperationPredict     = "predict"
	OperationScore       = "score"
	OperationLayerUpdate = "layer_update"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
)
