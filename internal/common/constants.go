package common

// Candidate feature names, in the order the models were trained on
const (
	FeatureExperienceYears  = "experience_years"
	FeatureTestScore        = "test_score"
	FeatureInterviewScore   = "interview_score"
	FeatureCommunication    = "communication"
	FeaturePerformanceScore = "performance_score"
)

// Model registry names
const (
	ModelRegression         = "regression"
	ModelKNN                = "KNN"
	ModelDecisionTree       = "Decision Tree"
	ModelSVM                = "SVM"
	ModelNaiveBayes         = "Naive Bayes"
	ModelLogisticRegression = "Logistic Regression"
)

// ClassifierNames lists the interchangeable hiring-decision classifiers in display order.
var ClassifierNames = []string{
	ModelKNN,
	ModelDecisionTree,
	ModelSVM,
	ModelNaiveBayes,
	ModelLogisticRegression,
}

// DefaultModelFiles maps each registry name to its artifact file inside the models directory.
var DefaultModelFiles = map[string]string{
	ModelRegression:         "reg_model.json",
	ModelKNN:                "knn_model.json",
	ModelDecisionTree:       "dt_model.json",
	ModelSVM:                "svm_model.json",
	ModelNaiveBayes:         "nb_model.json",
	ModelLogisticRegression: "log_model.json",
}

// IsClassifier reports whether name is one of the known classifier names.
func IsClassifier(name string) bool {
	for _, n := range ClassifierNames {
		if n == name {
			return true
		}
	}
	return false
}

// Environment variable keys
const (
	EnvConfigFile      = "CONFIG_FILE"
	EnvEnvFile         = "ENV_FILE"
	EnvModelsDir       = "MODELS_DIR"
	EnvModelStorePath  = "MODEL_STORE_PATH"
	EnvListenPort      = "LISTEN_PORT"
	EnvDefaultModel    = "DEFAULT_MODEL"
	EnvEnforceRanges   = "ENFORCE_RANGES"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvLoadConcurrency = "LOAD_CONCURRENCY"
	EnvRemoteTimeout   = "REMOTE_TIMEOUT"
)

// Configuration defaults
const (
	DefaultModelsDir       = "models"
	DefaultListenPort      = 8080
	DefaultClassifier      = ModelDecisionTree
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultLoadConcurrency = 4
)

// Validation constants
const (
	MinListenPort      = 1024
	MaxListenPort      = 65535
	MaxLoadConcurrency = 64
)
