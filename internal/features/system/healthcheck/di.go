package system_healthcheck

var healthcheckService = &HealthcheckService{
	checkDatabase: pingDatabase,
	checkCache:    pingCache,
}
var healthcheckController = &HealthcheckController{
	healthcheckService,
}

func GetHealthcheckController() *HealthcheckController {
	return healthcheckController
}
