package errors

// pre-defined `Errors`
var (
	// instantiate
	NoVoters            = NewError(100, "no voters")
	InvalidThreshold    = NewError(101, "invalid threshold")
	UnreachableWeight   = NewError(102, "required weight cannot be greater than total weight")
	DuplicateVoter      = NewError(103, "voter is duplicated")
	InvalidDuration     = NewError(104, "invalid voting period")
	AlreadyInstantiated = NewError(105, "governance is already instantiated")
	NotInstantiated     = NewError(106, "governance is not instantiated")
	WeightOverflow      = NewError(107, "total weight of voters overflows")

	// proposal lifecycle
	Unauthorized       = NewError(200, "unauthorized")
	WrongExpiration    = NewError(201, "proposal expiration must be comparable to max voting period")
	NotOpen            = NewError(202, "proposal is not open")
	Expired            = NewError(203, "proposal voting period has expired")
	AlreadyVoted       = NewError(204, "already voted on this proposal")
	WrongExecuteStatus = NewError(205, "proposal must have passed and not yet been executed")
	WrongCloseStatus   = NewError(206, "cannot close completed or passed proposals")
	NotExpired         = NewError(207, "proposal voting period has not expired yet")
	InvalidVote        = NewError(208, "invalid vote")

	// not found
	ProposalNotFound = NewError(300, "proposal not found")
	VoterNotFound    = NewError(301, "voter not found")
	BallotNotFound   = NewError(302, "ballot not found")

	// storage
	StorageRecordDoesNotExist  = NewError(400, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(401, "record already exists in storage")
	StorageCoreError           = NewError(402, "storage error")
	StorageUnknownScheme       = NewError(403, "unknown storage scheme")

	// dispatch
	DispatchFailed = NewError(500, "failed to dispatch proposal payload")
)
